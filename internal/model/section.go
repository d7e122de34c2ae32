package model

// SectionName identifies one of the canonical academic paper sections
type SectionName string

const (
	SectionAbstract     SectionName = "abstract"
	SectionIntroduction SectionName = "introduction"
	SectionMethodology  SectionName = "methodology"
	SectionResults      SectionName = "results"
	SectionDiscussion   SectionName = "discussion"
	SectionConclusion   SectionName = "conclusion"
)

// CanonicalSections lists every section in document order
var CanonicalSections = []SectionName{
	SectionAbstract,
	SectionIntroduction,
	SectionMethodology,
	SectionResults,
	SectionDiscussion,
	SectionConclusion,
}

// Valid reports whether s is one of the canonical sections
func (s SectionName) Valid() bool {
	for _, c := range CanonicalSections {
		if c == s {
			return true
		}
	}
	return false
}

// SectionMap maps each canonical section to its (possibly empty) text
type SectionMap map[SectionName]string

// NewSectionMap returns a map with every canonical section set to ""
func NewSectionMap() SectionMap {
	m := make(SectionMap, len(CanonicalSections))
	for _, s := range CanonicalSections {
		m[s] = ""
	}
	return m
}

// AllEmpty reports whether no section has any text
func (m SectionMap) AllEmpty() bool {
	for _, s := range CanonicalSections {
		if m[s] != "" {
			return false
		}
	}
	return true
}
