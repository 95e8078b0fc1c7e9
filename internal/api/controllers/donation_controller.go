package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	dbm "donations/internal/models/db_models"
	"donations/internal/models/request_models"
	"donations/internal/models/response_models"
	"donations/internal/services"
	"donations/pkg/middleware"
	"donations/pkg/utils"
)

const (
	defaultAmount = 5000
	indexPath     = "/donate"
)

type DonationController struct {
	helper          services.DonationRequestHelper
	donationService services.DonationService
	memberService   services.MemberServiceInterface
	formFactory     services.PaymentFormFactory
	callbackHandler services.DonationCallbackHandler
}

func NewDonationController(
	helper services.DonationRequestHelper,
	donationService services.DonationService,
	memberService services.MemberServiceInterface,
	formFactory services.PaymentFormFactory,
	callbackHandler services.DonationCallbackHandler,
) *DonationController {
	return &DonationController{
		helper:          helper,
		donationService: donationService,
		memberService:   memberService,
		formFactory:     formFactory,
		callbackHandler: callbackHandler,
	}
}

// Index godoc
// @Summary Start a donation
// @Tags Donations
// @Produce json
// @Param amount query int false "Amount in cents"
// @Success 200 {object} utils.APIResponse
// @Router /donate [get]
func (d *DonationController) Index(c *gin.Context) {
	amount, err := strconv.Atoi(c.DefaultQuery(services.AmountParam, strconv.Itoa(defaultAmount)))
	if err != nil || amount <= 0 {
		amount = defaultAmount
	}

	utils.RespondSuccess(c, response_models.DonationIndexResponse{Amount: amount}, "Choose your donation amount")
}

// Details godoc
// @Summary Fill in donor details
// @Description GET returns the pre-filled draft, POST validates it and creates the donation
// @Tags Donations
// @Accept json
// @Produce json
// @Param amount query int true "Amount in cents"
// @Param donation_retry_payload query string false "Retry payload from a previous attempt"
// @Success 200 {object} utils.APIResponse
// @Success 303
// @Failure 400 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Router /donate/details [get]
// @Router /donate/details [post]
func (d *DonationController) Details(c *gin.Context) {
	amount, err := strconv.Atoi(c.Query(services.AmountParam))
	if err != nil || amount <= 0 {
		c.Redirect(http.StatusFound, indexPath)
		return
	}

	var retryPayload *string
	if raw, ok := c.GetQuery(services.RetryPayloadParam); ok {
		retryPayload = &raw
	}

	draft, err := d.helper.CreateFromRequest(amount, retryPayload, d.currentMember(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	if c.Request.Method != http.MethodPost {
		utils.RespondSuccess(c, draft, "Donation draft")
		return
	}

	var form request_models.DonationDetailsForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	form.ApplyTo(draft)

	donation, err := d.donationService.Handle(c.Request.Context(), draft, c.ClientIP())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("%s/%s/pay", indexPath, donation.UUID))
}

// Pay godoc
// @Summary Gateway form for a pending donation
// @Tags Donations
// @Produce json
// @Param uuid path string true "Donation UUID"
// @Success 200 {object} utils.APIResponse
// @Router /donate/{uuid}/pay [get]
func (d *DonationController) Pay(c *gin.Context) {
	donation, ok := d.loadDonation(c)
	if !ok {
		return
	}

	if donation.IsFinished() {
		c.Redirect(http.StatusFound, indexPath)
		return
	}

	form, err := d.formFactory.CreatePayboxFormForDonation(donation)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, form, "Submit this form to the payment gateway")
}

// Callback is the gateway return URL. The "id" parameter is the Paybox
// reference: the donation UUID, an underscore, then a suffix.
func (d *DonationController) Callback(c *gin.Context) {
	id, ok := parseDonationUUID(services.ParsePayboxReference(c.Query("id")))
	if !ok {
		c.Redirect(http.StatusFound, indexPath)
		return
	}

	payload := make(map[string]any, len(c.Request.URL.Query()))
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			payload[key] = values[0]
		}
	}

	status, err := d.callbackHandler.Handle(c.Request.Context(), id, payload)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("%s/%s/%s?%s", indexPath, status.UUID, status.Status, status.Query().Encode()))
}

// Result godoc
// @Summary Outcome of a donation, with a retry link
// @Tags Donations
// @Produce json
// @Param uuid path string true "Donation UUID"
// @Param status path string true "success or error"
// @Param code query string true "Status category"
// @Param donation_callback_token query string true "Callback token"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /donate/{uuid}/{status} [get]
func (d *DonationController) Result(c *gin.Context) {
	status := c.Param("status")
	if status != services.ResultStatusSuccess && status != services.ResultStatusError {
		utils.RespondError(c, http.StatusNotFound, "Page not found")
		return
	}

	donation, ok := d.loadDonation(c)
	if !ok {
		return
	}

	retryQuery, err := d.helper.CreateRetryQuery(donation, c.Query("code"), c.Query(services.CallbackTokenPurpose))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.DonationResultResponse{
		Successful: donation.IsSuccessful(),
		ErrorCode:  c.Query("code"),
		Donation:   donation,
		RetryURL:   indexPath + "/details?" + retryQuery.Encode(),
	}, "Donation result")
}

// loadDonation resolves the :uuid path parameter. A malformed identifier
// sends the browser back to the start.
func (d *DonationController) loadDonation(c *gin.Context) (*dbm.Donation, bool) {
	id, ok := parseDonationUUID(c.Param("uuid"))
	if !ok {
		c.Redirect(http.StatusFound, indexPath)
		return nil, false
	}

	donation, err := d.donationService.FindByUUID(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return nil, false
	}
	return donation, true
}

func (d *DonationController) currentMember(c *gin.Context) *dbm.Member {
	memberID := c.GetString(middleware.MemberIDKey)
	if memberID == "" {
		return nil
	}

	member, err := d.memberService.FindProfile(c.Request.Context(), memberID)
	if err != nil {
		log.WithError(err).WithField("member_id", memberID).Warn("Member profile unavailable, using a blank draft")
		return nil
	}
	return member
}

// parseDonationUUID only accepts the canonical 36-character form.
func parseDonationUUID(raw string) (uuid.UUID, bool) {
	if len(raw) != 36 {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
