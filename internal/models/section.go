package models

// Section identifies a named area of the public site whose visibility and
// order are admin-controlled.
type Section string

const (
	SectionInitiatives Section = "initiatives"
	SectionEvents      Section = "events"
	SectionProjects    Section = "projects"
	SectionStandards   Section = "standards"
	SectionLearning    Section = "learning"
	SectionTeam        Section = "team"
	SectionPartners    Section = "partners"
)

// SectionCatalogue is the fixed, compile-time list of known sections in their
// canonical declaration order. Order resolution falls back to this sequence.
var SectionCatalogue = []Section{
	SectionInitiatives,
	SectionEvents,
	SectionProjects,
	SectionStandards,
	SectionLearning,
	SectionTeam,
	SectionPartners,
}

// SectionOrderKey is the settings key holding the ordered section list.
const SectionOrderKey = "section_order"

// VisibilityKey returns the settings key holding a section's visibility flag.
func (s Section) VisibilityKey() string {
	return string(s) + "_visibility"
}

// KnownSection reports whether the key names a catalogued section.
func KnownSection(key string) bool {
	for _, s := range SectionCatalogue {
		if string(s) == key {
			return true
		}
	}
	return false
}

// SectionState combines a section's resolved visibility and position.
type SectionState struct {
	Key      Section `json:"key"`
	Visible  bool    `json:"visible"`
	Position int     `json:"position"`
}
