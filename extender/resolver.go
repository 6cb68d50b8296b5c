package extender

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/c360/webkit/errors"
)

// Template identifies an open generic base type by its defining package and
// bare name. A closed instantiation such as Subscriber[UserCreated] carries
// the reflect name "Subscriber[pkg.UserCreated]", so the template matches
// any type in the same package whose name opens with "Subscriber[".
type Template struct {
	pkgPath string
	name    string
}

// TemplateOf derives a Template from any closed instantiation of a generic
// type. It fails when sample is nil or not a generic instantiation.
func TemplateOf(sample reflect.Type) (Template, error) {
	if sample == nil {
		return Template{}, errors.WrapInvalid(errors.ErrNilArgument,
			"Template", "TemplateOf", "sample type validation")
	}

	name := sample.Name()
	idx := strings.IndexByte(name, '[')
	if idx <= 0 {
		return Template{}, errors.WrapType(
			fmt.Errorf("%w: %s is not a generic instantiation", errors.ErrInvalidType, sample),
			"Template", "TemplateOf", "generic name check")
	}

	return Template{pkgPath: sample.PkgPath(), name: name[:idx]}, nil
}

// mustTemplate is TemplateOf for package-level template variables.
func mustTemplate(sample reflect.Type) Template {
	tmpl, err := TemplateOf(sample)
	if err != nil {
		panic(err)
	}
	return tmpl
}

// SubscriberTemplate matches closed instantiations of the Subscriber base.
var SubscriberTemplate = mustTemplate(reflect.TypeOf(Subscriber[Event]{}))

// String returns the open generic name, e.g. "extender.Subscriber".
func (tp Template) String() string {
	if tp.pkgPath == "" {
		return tp.name
	}
	return tp.pkgPath + "." + tp.name
}

// Matches reports whether t is a closed instantiation of the template.
func (tp Template) Matches(t reflect.Type) bool {
	if t == nil || tp.name == "" || t.PkgPath() != tp.pkgPath {
		return false
	}
	name := t.Name()
	return strings.HasPrefix(name, tp.name) &&
		len(name) > len(tp.name) && name[len(tp.name)] == '['
}

// ResolveArgument walks candidate's base chain until it finds an ancestor
// that is a closed instantiation of tmpl, then returns the concrete type
// argument bound at that instantiation. The chain may be arbitrarily deep;
// ok is false when no ancestor matches. The candidate itself counts as the
// first link of the chain.
func ResolveArgument(candidate reflect.Type, tmpl Template) (reflect.Type, bool) {
	for t := candidate; t != nil; {
		if tmpl.Matches(t) {
			return typeArgument(t)
		}
		base, ok := directBase(t)
		if !ok {
			return nil, false
		}
		t = base
	}
	return nil, false
}

// typeArgument recovers the single type argument of a closed instantiation
// from its zero-size array marker field.
func typeArgument(t reflect.Type) (reflect.Type, bool) {
	for i := 0; i < t.NumField(); i++ {
		ft := t.Field(i).Type
		if ft.Kind() == reflect.Array && ft.Len() == 0 {
			return ft.Elem(), true
		}
	}
	return nil, false
}
