package decode

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/viant/typedjson/internal/fold"
	"github.com/viant/typedjson/internal/lru"
	"github.com/viant/typedjson/internal/tagutil"
	"github.com/viant/xunsafe"
)

type typePlan struct {
	rType  reflect.Type
	fields []*fieldPlan
	byName map[string]*fieldPlan
	byFold map[uint64][]foldField
	union  *unionPlan
	err    error
}

type foldField struct {
	key string
	fp  *fieldPlan
}

type fieldPlan struct {
	name          string
	fieldName     string
	rType         reflect.Type
	xField        *xunsafe.Field
	resolve       func(root unsafe.Pointer) unsafe.Pointer
	ignore        bool
	discriminator bool
	variants      []string
}

// unionPlan describes a tagged union: the discriminant selects which field
// set is legal after it.
type unionPlan struct {
	discriminant *fieldPlan
	variants     map[string][]*fieldPlan
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
	if rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	key := planCacheKey{rType: rType, caseKey: caseKey}
	if v, ok := planCache.Get(key); ok {
		return v
	}
	p := buildPlan(rType, compileName)
	planCache.Set(key, p)
	return p
}

func buildPlan(rType reflect.Type, compileName func(string) string) *typePlan {
	p := &typePlan{rType: rType, byName: map[string]*fieldPlan{}, byFold: map[uint64][]foldField{}}
	if rType.Kind() != reflect.Struct {
		return p
	}

	addField := func(name string, fp *fieldPlan) {
		if _, ok := p.byName[name]; !ok {
			p.byName[name] = fp
		}
		h := fold.Hash(name)
		for _, candidate := range p.byFold[h] {
			if candidate.fp == fp && candidate.key == name {
				return
			}
		}
		p.byFold[h] = append(p.byFold[h], foldField{key: name, fp: fp})
	}

	buildResolver := func(chain []*xunsafe.Field) func(unsafe.Pointer) unsafe.Pointer {
		return func(root unsafe.Pointer) unsafe.Pointer {
			current := root
			for i, f := range chain {
				ptr := f.Pointer(current)
				if i == len(chain)-1 {
					return ptr
				}
				if f.Type.Kind() == reflect.Ptr {
					next := (*unsafe.Pointer)(ptr)
					if *next == nil {
						alloc := reflect.New(f.Type.Elem())
						*next = unsafe.Pointer(alloc.Pointer())
					}
					current = *next
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

			fp := &fieldPlan{
				name:          tag.Name,
				fieldName:     sf.Name,
				rType:         sf.Type,
				xField:        xf,
				resolve:       buildResolver(chain),
				ignore:        tag.Transient,
				discriminator: tag.Discriminator,
			}
			for _, v := range tag.Variants {
				fp.variants = append(fp.variants, fold.Normalize(v))
			}
			p.fields = append(p.fields, fp)
			addField(tag.Name, fp)
			if compileName != nil && !tag.Explicit {
				if alias := compileName(tag.Name); alias != "" && alias != tag.Name {
					addField(alias, fp)
				}
			}
		}
	}

	collect(rType, nil)
	p.err = resolveUnion(p)
	return p
}

// resolveUnion validates the tagged-union declaration: the discriminant must
// be the first declared field and every other field must name its variants.
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
	u := &unionPlan{discriminant: discriminant, variants: map[string][]*fieldPlan{}}
	for _, fp := range p.fields[1:] {
		if fp.ignore {
			continue
		}
		if len(fp.variants) == 0 {
			return fmt.Errorf("union type %s: field %s must declare a variant", p.rType, fp.fieldName)
		}
		for _, v := range fp.variants {
			u.variants[v] = append(u.variants[v], fp)
		}
	}
	p.union = u
	return nil
}

// lookupField resolves a JSON object key: exact declared-name match first,
// then identifier-normalized match.
func lookupField(plan *typePlan, key string) (*fieldPlan, bool) {
	if fp, ok := plan.byName[key]; ok {
		return fp, true
	}
	for _, candidate := range plan.byFold[fold.Hash(key)] {
		if fold.Equal(candidate.key, key) {
			return candidate.fp, true
		}
	}
	return nil, false
}
