package handler

import (
	"intake/internal/intake/models"
)

type createClientResponse struct {
	ID                   string        `json:"id"`
	ClientID             string        `json:"clientId"`
	CompletionPercentage int           `json:"completionPercentage"`
	Status               models.Status `json:"status"`
}

type updateSectionResponse struct {
	UpdatedSection       string        `json:"updatedSection"`
	CompletionPercentage int           `json:"completionPercentage"`
	Status               models.Status `json:"status"`
}

type bulkUpdateResponse struct {
	UpdatedSections      []string      `json:"updatedSections"`
	CompletionPercentage int           `json:"completionPercentage"`
	Status               models.Status `json:"status"`
}

type sectionResponse struct {
	Section  string `json:"section"`
	ClientID string `json:"clientId"`
	Data     any    `json:"data"`
}

type statusResponse struct {
	ID     string        `json:"id"`
	Status models.Status `json:"status"`
}
