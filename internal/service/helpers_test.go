package service

import (
	"gymapi/internal/auth"
	"gymapi/internal/model"
	"gymapi/internal/realtime"
)

var (
	adminActor   = auth.Principal{UserID: "u-admin", ProfileID: "admin-1", Role: model.RoleAdmin}
	trainerActor = auth.Principal{UserID: "u-pt", ProfileID: "pt-1", Role: model.RolePT}
	athleteActor = auth.Principal{UserID: "u-ath", ProfileID: "athlete-1", Role: model.RoleAthlete}
)

func athleteProfile(id string) *model.Profile {
	return &model.Profile{ID: id, FirstName: "Mario", LastName: "Rossi", Email: id + "@example.com", Role: model.RoleAthlete, Status: model.StatusActive}
}

// recorder collects published events.
type recorder struct {
	events []realtime.Event
}

func (r *recorder) Publish(ev realtime.Event) { r.events = append(r.events, ev) }

func ptr[T any](v T) *T { return &v }
