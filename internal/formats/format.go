package formats

import (
	"fmt"

	apperrors "idrcli/internal/errors"
	"idrcli/internal/series"
	"idrcli/internal/tabular"
)

// Format identifies one of the known utility export layouts.
type Format int

const (
	// Pseg is the fallback two-column layout.
	Pseg Format = iota
	FirstEnergy
	Comed
	Esg
	Bge
	Duq
)

// String returns the utility name used in logs and messages.
func (f Format) String() string {
	switch f {
	case Pseg:
		return "PSEG"
	case FirstEnergy:
		return "First Energy"
	case Comed:
		return "COMED"
	case Esg:
		return "ESG"
	case Bge:
		return "BGE"
	case Duq:
		return "DUQ"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// CustomerSection groups one canonical series under a customer identifier.
// Only First Energy files produce more than one section; every other layout
// yields a single section with an empty ID.
type CustomerSection struct {
	ID      string
	Records []series.IntervalRecord
}

// Read dispatches to the reader for the classified layout. The result is one
// or more customer sections of end-labeled interval records.
func Read(format Format, src *tabular.Source) ([]CustomerSection, error) {
	switch format {
	case FirstEnergy:
		return ReadFirstEnergy(src)
	case Duq:
		return singleSection(ReadDuq(src))
	case Comed:
		return singleSection(ReadComed(src))
	case Esg:
		return singleSection(ReadEsg(src))
	case Bge:
		return singleSection(ReadBge(src))
	case Pseg:
		return singleSection(ReadPseg(src))
	}
	return nil, apperrors.NewUnrecognizedFormatError(fmt.Sprintf("no reader for %s", format), nil)
}

func singleSection(records []series.IntervalRecord, err error) ([]CustomerSection, error) {
	if err != nil {
		return nil, err
	}
	return []CustomerSection{{Records: records}}, nil
}
