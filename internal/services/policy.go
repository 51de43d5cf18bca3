package services

import (
	"fmt"

	"github.com/roamly/api/internal/apperr"
	"github.com/roamly/api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor is the authenticated principal a service call runs as.
type Actor struct {
	ID   primitive.ObjectID
	Role models.Role
}

// statusPolicy is one row of the booking status authorization table.
// A nil allowed slice means any valid target status.
type statusPolicy struct {
	requireOwner bool
	requireGuide bool
	allowed      []models.BookingStatus
	deniedMsg    string
}

var bookingStatusPolicies = map[models.Role]statusPolicy{
	models.RoleTourist: {
		requireOwner: true,
		allowed:      []models.BookingStatus{models.BookingCancelled},
		deniedMsg:    "Tourist can only CANCEL bookings",
	},
	models.RoleGuide:      {requireGuide: true},
	models.RoleAdmin:      {},
	models.RoleSuperAdmin: {},
}

// AuthorizeStatusChange decides whether the actor may move the booking to
// the target status, consulting the policy table. Targets are otherwise
// unrestricted: guides and admins may move a booking out of any state.
func AuthorizeStatusChange(actor Actor, booking *models.Booking, target models.BookingStatus) error {
	if !target.Valid() {
		return apperr.BadRequest(fmt.Sprintf("invalid booking status %q", target))
	}

	policy, ok := bookingStatusPolicies[actor.Role]
	if !ok {
		return apperr.Forbidden("you are not permitted to update bookings")
	}
	if policy.requireOwner && booking.User != actor.ID {
		return apperr.Forbidden("you can only update your own bookings")
	}
	if policy.requireGuide && booking.Guide != actor.ID {
		return apperr.Forbidden("you can only update bookings assigned to you")
	}
	if policy.allowed != nil {
		permitted := false
		for _, s := range policy.allowed {
			if s == target {
				permitted = true
				break
			}
		}
		if !permitted {
			return apperr.BadRequest(policy.deniedMsg)
		}
	}
	return nil
}

// CanViewBooking reports whether the actor may read the booking: the
// booking tourist, the assigned guide, or an admin.
func CanViewBooking(actor Actor, booking *models.Booking) bool {
	if actor.Role.IsAdmin() {
		return true
	}
	return booking.User == actor.ID || booking.Guide == actor.ID
}
