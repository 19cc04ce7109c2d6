package model

import (
	"slices"
	"strings"
)

// Intent is the closed set of conversation intents.
type Intent string

const (
	IntentGreeting       Intent = "greeting"
	IntentInformation    Intent = "information"
	IntentServiceRequest Intent = "service_request"
	IntentComplaint      Intent = "complaint"
	IntentPraise         Intent = "praise"
	IntentOther          Intent = "other"
)

// Intents lists every valid intent in routing-table order.
var Intents = []Intent{
	IntentGreeting,
	IntentInformation,
	IntentServiceRequest,
	IntentComplaint,
	IntentPraise,
	IntentOther,
}

// labels maps every accepted classifier label to its intent.
// The Portuguese labels are what older classifier prompts emit.
var labels = map[string]Intent{
	"greeting":        IntentGreeting,
	"information":     IntentInformation,
	"service_request": IntentServiceRequest,
	"complaint":       IntentComplaint,
	"praise":          IntentPraise,
	"other":           IntentOther,

	"saudacao":    IntentGreeting,
	"informacoes": IntentInformation,
	"atendimento": IntentServiceRequest,
	"reclamacao":  IntentComplaint,
	"elogio":      IntentPraise,
	"outros":      IntentOther,
}

// ParseIntent maps a free-form label to an Intent. Unknown labels become IntentOther.
func ParseIntent(label string) Intent {
	if intent, ok := labels[strings.ToLower(strings.TrimSpace(label))]; ok {
		return intent
	}
	return IntentOther
}

// Valid reports whether i is one of Intents.
func (i Intent) Valid() bool {
	return slices.Contains(Intents, i)
}

// RequiresHandoff reports whether the intent triggers a human hand-off notification.
func (i Intent) RequiresHandoff() bool {
	return i == IntentServiceRequest || i == IntentComplaint
}

func (i Intent) String() string {
	return string(i)
}
