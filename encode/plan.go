package encode

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/viant/typedjson/internal/fold"
	"github.com/viant/typedjson/internal/lru"
	"github.com/viant/typedjson/internal/tagutil"
	"github.com/viant/xunsafe"
)

// typePlan holds the encode view of a struct: fields in declaration order,
// embedded structs flattened in place.
type typePlan struct {
	rType  reflect.Type
	fields []*fieldPlan
	union  *unionPlan
	err    error
}

type fieldPlan struct {
	name          string
	fieldName     string
	rType         reflect.Type
	resolve       func(root unsafe.Pointer) unsafe.Pointer
	omitEmpty     bool
	ignore        bool
	discriminator bool
	variants      []string
}

type unionPlan struct {
	discriminant *fieldPlan
	variants     map[string]struct{}
}

func (fp *fieldPlan) allowsVariant(variant string) bool {
	for _, v := range fp.variants {
		if v == variant {
			return true
		}
	}
	return false
}

type planCacheKey struct {
	rType   reflect.Type
	caseKey string
}

var planCache = lru.New[planCacheKey, *typePlan](2048)

func planFor(rType reflect.Type, caseKey string, compileName func(string) string) *typePlan {
	key := planCacheKey{rType: rType, caseKey: caseKey}
	if v, ok := planCache.Get(key); ok {
		return v
	}
	p := buildPlan(rType, compileName)
	planCache.Set(key, p)
	return p
}

func buildPlan(rType reflect.Type, compileName func(string) string) *typePlan {
	p := &typePlan{rType: rType}
	if rType.Kind() != reflect.Struct {
		return p
	}

	// Reading never allocates: a field behind a nil embedded pointer
	// resolves to nil and is omitted from the output.
	buildResolver := func(chain []*xunsafe.Field) func(unsafe.Pointer) unsafe.Pointer {
		return func(root unsafe.Pointer) unsafe.Pointer {
			current := root
			for i, f := range chain {
				ptr := f.Pointer(current)
				if i == len(chain)-1 {
					return ptr
				}
				if f.Type.Kind() == reflect.Ptr {
					next := *(*unsafe.Pointer)(ptr)
					if next == nil {
						return nil
					}
					current = next
				} else {
					current = ptr
				}
			}
			return current
		}
	}

	var collect func(t reflect.Type, parent []*xunsafe.Field)
	collect = func(t reflect.Type, parent []*xunsafe.Field) {
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if sf.PkgPath != "" {
				continue
			}
			tag := tagutil.Resolve(sf)
			xf := xunsafe.NewField(sf)
			chain := append(append([]*xunsafe.Field{}, parent...), xf)

			if sf.Anonymous && !tag.Explicit && !tag.Transient {
				embedded := sf.Type
				if embedded.Kind() == reflect.Ptr {
					embedded = embedded.Elem()
				}
				if embedded.Kind() == reflect.Struct {
					collect(embedded, chain)
					continue
				}
			}

			name := tag.Name
			if compileName != nil && !tag.Explicit {
				if alias := compileName(name); alias != "" {
					name = alias
				}
			}
			fp := &fieldPlan{
				name:          name,
				fieldName:     sf.Name,
				rType:         sf.Type,
				resolve:       buildResolver(chain),
				omitEmpty:     tag.OmitEmpty,
				ignore:        tag.Transient,
				discriminator: tag.Discriminator,
			}
			for _, v := range tag.Variants {
				fp.variants = append(fp.variants, fold.Normalize(v))
			}
			p.fields = append(p.fields, fp)
		}
	}

	collect(rType, nil)
	p.err = resolveUnion(p)
	return p
}

// resolveUnion mirrors the decode-side validation so a union type fails the
// same way in both directions.
func resolveUnion(p *typePlan) error {
	var discriminant *fieldPlan
	hasVariants := false
	for _, fp := range p.fields {
		if fp.discriminator {
			if discriminant != nil {
				return fmt.Errorf("union type %s: multiple discriminator fields", p.rType)
			}
			discriminant = fp
		}
		if len(fp.variants) > 0 {
			hasVariants = true
		}
	}
	if discriminant == nil {
		if hasVariants {
			return fmt.Errorf("union type %s: variant fields declared without a discriminator", p.rType)
		}
		return nil
	}
	if p.fields[0] != discriminant {
		return fmt.Errorf("union type %s: discriminator %s must be the first field", p.rType, discriminant.fieldName)
	}
	if discriminant.rType.Kind() != reflect.String {
		return fmt.Errorf("union type %s: discriminator %s must be a string", p.rType, discriminant.fieldName)
	}
	u := &unionPlan{discriminant: discriminant, variants: map[string]struct{}{}}
	for _, fp := range p.fields[1:] {
		if fp.ignore {
			continue
		}
		if len(fp.variants) == 0 {
			return fmt.Errorf("union type %s: field %s must declare a variant", p.rType, fp.fieldName)
		}
		for _, v := range fp.variants {
			u.variants[v] = struct{}{}
		}
	}
	p.union = u
	return nil
}
