package models

import "time"

// UserStory is a structured requirements document. The list fields are
// ordered; mainFlow in particular is a numbered procedure.
type UserStory struct {
	ID                        string    `json:"id"`
	Title                     string    `json:"title"`
	Description               string    `json:"description"`
	Actors                    []string  `json:"actors"`
	Preconditions             []string  `json:"preconditions"`
	Postconditions            []string  `json:"postconditions"`
	MainFlow                  []string  `json:"mainFlow"`
	AlternativeFlows          []string  `json:"alternativeFlows"`
	BusinessRules             []string  `json:"businessRules"`
	DataRequirements          []string  `json:"dataRequirements"`
	NonFunctionalRequirements []string  `json:"nonFunctionalRequirements"`
	Assumptions               []string  `json:"assumptions"`
	CreatedAt                 time.Time `json:"createdAt"`
	UpdatedAt                 time.Time `json:"updatedAt"`
	IsDeleted                 bool      `json:"-"`
}
