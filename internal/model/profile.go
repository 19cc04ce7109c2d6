package model

// Profile is what the CRM knows about a caller. The zero value is the unknown caller.
type Profile struct {
	ID            int
	Phone         string
	Name          string
	Company       string
	CRMIntentHint string
}

// IsKnown reports whether the CRM returned a real record.
func (p Profile) IsKnown() bool {
	return p.ID != 0 || p.Name != ""
}
