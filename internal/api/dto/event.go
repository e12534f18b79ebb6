package dto

import "delivery-analytics-service/internal/domain"

type IngestEventsRequest struct {
	Events []domain.DeliveryEvent `json:"events"`
}

type IngestEventsResponse struct {
	Received   int `json:"received"`
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
}
