package service

import "github.com/clientpulse/clientpulse/internal/domain"

// insightProfile carries the per-kind audit metadata folded into run
// records: scores plus recommendation templates.
type insightProfile struct {
	Confidence      float64
	Impact          float64
	Actionability   float64
	Recommendations []string
}

var insightProfiles = map[domain.EventKind]insightProfile{
	domain.EventContractSigned: {
		Confidence:    0.95,
		Impact:        0.85,
		Actionability: 0.9,
		Recommendations: []string{
			"Schedule a kickoff call with {{client_name}}",
			"Create the project workspace and share the timeline",
		},
	},
	domain.EventPaymentReceived: {
		Confidence:    0.98,
		Impact:        0.7,
		Actionability: 0.8,
		Recommendations: []string{
			"Send a thank-you note to {{client_name}}",
			"Propose a retainer or the next project phase",
		},
	},
	domain.EventProjectCompleted: {
		Confidence:    0.9,
		Impact:        0.8,
		Actionability: 0.85,
		Recommendations: []string{
			"Ask {{client_name}} for a testimonial",
			"Send the final invoice if anything remains unbilled",
		},
	},
	domain.EventClientCreated: {
		Confidence:    0.9,
		Impact:        0.6,
		Actionability: 0.75,
		Recommendations: []string{
			"Send a welcome message to {{client_name}}",
			"Add notes about how this client found you",
		},
	},
	domain.EventMeetingUpcoming: {
		Confidence:    0.95,
		Impact:        0.5,
		Actionability: 0.9,
		Recommendations: []string{
			"Prepare an agenda for {{meeting_title}}",
			"Review open invoices and projects for {{client_name}}",
		},
	},
}

// profileFor returns the insight profile for a kind, falling back to a
// neutral profile for kinds added before their metadata.
func profileFor(kind domain.EventKind) insightProfile {
	if profile, ok := insightProfiles[kind]; ok {
		return profile
	}
	return insightProfile{Confidence: 0.5, Impact: 0.5, Actionability: 0.5}
}
