package convert

import (
	"errors"

	"github.com/cru-genomics/vcf2tab/internal/region"
)

// VariantWriter defines the interface for writing normalized variants.
type VariantWriter interface {
	WriteHeader() error
	Write(v region.Variant) error
	Flush() error
}

type multiWriter struct {
	writers []VariantWriter
}

// MultiWriter returns a VariantWriter that duplicates every call to all
// given writers, in order. Write stops at the first failing writer; Flush
// flushes all of them and joins their errors.
func MultiWriter(writers ...VariantWriter) VariantWriter {
	if len(writers) == 1 {
		return writers[0]
	}
	return &multiWriter{writers: writers}
}

func (m *multiWriter) WriteHeader() error {
	for _, w := range m.writers {
		if err := w.WriteHeader(); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiWriter) Write(v region.Variant) error {
	for _, w := range m.writers {
		if err := w.Write(v); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiWriter) Flush() error {
	var errs []error
	for _, w := range m.writers {
		if err := w.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
