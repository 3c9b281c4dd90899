package model

// AvailabilityWindow is the inclusive hour range a provider accepts
// appointments on one date.
type AvailabilityWindow struct {
	Base
	ProviderID int64 `db:"provider_id" json:"provider_id"`
	Date       Date  `db:"date" json:"date"`
	StartHour  int   `db:"start_hour" json:"start_hour"`
	EndHour    int   `db:"end_hour" json:"end_hour"`
}

type AvailabilityWindowRequest struct {
	ProviderID int64  `json:"provider_id" binding:"required,gt=0"`
	Date       string `json:"date" binding:"required,isodate"`
	StartHour  *int   `json:"start_hour" binding:"required,min=0,max=23"`
	EndHour    *int   `json:"end_hour" binding:"required,min=0,max=23,gtefield=StartHour"`
}

type AvailabilityFilters struct {
	ProviderID int64
	Dates      DateRange
}
