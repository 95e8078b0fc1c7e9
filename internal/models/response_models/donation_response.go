package response_models

import dbm "donations/internal/models/db_models"

type DonationIndexResponse struct {
	Amount int `json:"amount"`
}

// DonationResultResponse backs the result page. RetryURL reopens the details
// form pre-filled with this donation.
type DonationResultResponse struct {
	Successful bool          `json:"successful"`
	ErrorCode  string        `json:"error_code"`
	Donation   *dbm.Donation `json:"donation"`
	RetryURL   string        `json:"retry_url"`
}
