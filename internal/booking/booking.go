package booking

import "time"

// Booking is the payment/booking record created when an owner accepts an offer.
// Listing fields are joined in for display.
type Booking struct {
	ID                 string     `json:"id"`
	OfferID            string     `json:"offerId"`
	ListingID          string     `json:"listingId"`
	TravelerID         string     `json:"travelerId"`
	OwnerID            string     `json:"ownerId"`
	Status             Status     `json:"status"`
	ConfirmationNumber string     `json:"confirmationNumber,omitempty"`
	ProofFilePath      string     `json:"proofFilePath,omitempty"`
	CancelReason       string     `json:"cancelReason,omitempty"`
	CanceledBy         string     `json:"canceledBy,omitempty"`
	CanceledAt         *time.Time `json:"canceledAt,omitempty"`
	AdminVerifiedAt    *time.Time `json:"adminVerifiedAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`

	Listing ListingSummary `json:"listing"`
}

// ReviewState is what the detail view shows one viewer about reviews.
type ReviewState struct {
	Open             bool   `json:"open"`
	ReviewedUserID   string `json:"reviewedUserId,omitempty"`
	CanReviewUser    bool   `json:"canReviewUser"`
	CanReviewResort  bool   `json:"canReviewResort"`
	LeftUserReview   bool   `json:"leftUserReview"`
	LeftResortReview bool   `json:"leftResortReview"`
}

type ListingSummary struct {
	ResortName      string `json:"resortName"`
	City            string `json:"city"`
	Country         string `json:"country,omitempty"`
	CheckInDate     string `json:"checkInDate"`
	CheckOutDate    string `json:"checkOutDate"`
	UnitType        string `json:"unitType"`
	OwnerPriceCents int64  `json:"ownerPriceCents"`
}

// PartyRole returns how userID relates to the booking, or "" for a stranger.
func (b *Booking) PartyRole(userID string) Actor {
	switch {
	case userID == "":
		return ""
	case userID == b.TravelerID:
		return ActorTraveler
	case userID == b.OwnerID:
		return ActorOwner
	default:
		return ""
	}
}

// CounterpartyOf returns the other party's id for a traveler or owner.
func (b *Booking) CounterpartyOf(userID string) string {
	switch b.PartyRole(userID) {
	case ActorTraveler:
		return b.OwnerID
	case ActorOwner:
		return b.TravelerID
	default:
		return ""
	}
}
