package typedjson

import (
	"time"

	"github.com/viant/tagly/format"
	"github.com/viant/tagly/format/text"
	ftime "github.com/viant/tagly/format/time"
)

type optionFn func(*Options)

func (o optionFn) apply(opts *Options) { o(opts) }

func WithUnknownFieldPolicy(policy UnknownFieldPolicy) Option {
	return optionFn(func(o *Options) { o.UnknownFieldPolicy = policy })
}

func WithDuplicateKeyPolicy(policy DuplicateKeyPolicy) Option {
	return optionFn(func(o *Options) { o.DuplicateKeyPolicy = policy })
}

func WithMalformedPolicy(policy MalformedPolicy) Option {
	return optionFn(func(o *Options) { o.MalformedPolicy = policy })
}

func WithCaseFormat(caseFormat text.CaseFormat) Option {
	return optionFn(func(o *Options) {
		o.CaseFormat = caseFormat
		o.setCaseFormat = true
	})
}

func WithFormatTag(tag *format.Tag) Option {
	return optionFn(func(o *Options) { o.FormatTag = tag })
}

func WithSourceLabel(label string) Option {
	return optionFn(func(o *Options) { o.SourceLabel = label })
}

func WithTimeLayout(layout string) Option {
	return optionFn(func(o *Options) { o.TimeLayout = layout })
}

func WithOmitEmpty(enabled bool) Option {
	return optionFn(func(o *Options) { o.OmitEmpty = enabled })
}

func WithNilSlicePolicy(policy NilSlicePolicy) Option {
	return optionFn(func(o *Options) { o.NilSlicePolicy = policy })
}

func defaultOptions() Options {
	return Options{
		UnknownFieldPolicy: ErrorOnUnknown,
		DuplicateKeyPolicy: ErrorOnDuplicate,
		MalformedPolicy:    FailFast,
		CaseFormat:         text.CaseFormatUndefined,
		TimeLayout:         time.RFC3339,
		NilSlicePolicy:     NilSliceAsNull,
	}
}

func resolveOptions(opts []Option) Options {
	result := defaultOptions()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.apply(&result)
	}
	if result.FormatTag != nil {
		if result.FormatTag.TimeLayout != "" {
			result.TimeLayout = result.FormatTag.TimeLayout
		} else if result.FormatTag.DateFormat != "" {
			result.TimeLayout = ftime.DateFormatToTimeLayout(result.FormatTag.DateFormat)
		}
		if !result.setCaseFormat {
			cf := text.CaseFormat(result.FormatTag.CaseFormat)
			if cf != "" && cf != "-" {
				result.CaseFormat = cf
				result.setCaseFormat = true
			}
		}
	}
	return result
}
