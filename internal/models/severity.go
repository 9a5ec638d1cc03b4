package models

// Severity is the ordinal urgency label assigned to a message or resource.
type Severity string

const (
	SeverityLow       Severity = "low"
	SeverityMedium    Severity = "medium"
	SeverityHigh      Severity = "high"
	SeverityEmergency Severity = "emergency"
)

// Rank orders severities from low (0) to emergency (3). Unknown values rank as low.
func (s Severity) Rank() int {
	switch s {
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	case SeverityEmergency:
		return 3
	default:
		return 0
	}
}

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityEmergency:
		return true
	}
	return false
}

// ParseSeverity returns the severity named by v and whether it is known.
func ParseSeverity(v string) (Severity, bool) {
	s := Severity(v)
	return s, s.Valid()
}

// ResourceCategory groups support resources and the tags attached to replies.
type ResourceCategory string

const (
	CategoryLegal         ResourceCategory = "legal"
	CategoryMedical       ResourceCategory = "medical"
	CategoryShelter       ResourceCategory = "shelter"
	CategoryPsychological ResourceCategory = "psychological"
	CategoryEmergency     ResourceCategory = "emergency"
	CategoryGeneral       ResourceCategory = "general"
)

func (c ResourceCategory) Valid() bool {
	switch c {
	case CategoryLegal, CategoryMedical, CategoryShelter, CategoryPsychological, CategoryEmergency, CategoryGeneral:
		return true
	}
	return false
}

// Role identifies who authored a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)
