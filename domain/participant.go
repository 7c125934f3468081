// Package domain contains core concepts of the direct messaging system.
// This file defines participants and the external profile they carry.
// No runtime, network, or storage logic should be added here.
package domain

import (
	"dm-lab/errors"
	"fmt"
	"strconv"
)

// UserID identifies a user issued by the external identity provider.
type UserID int64

// NoUser is the zero UserID, used where "nobody" must be represented (e.g. Room.LeftBy).
const NoUser UserID = 0

func ParseUserID(s string) (UserID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return NoUser, fmt.Errorf("%w: user id %q", errors.ErrInvalidIdentifier, s)
	}
	return UserID(id), nil
}

func (u UserID) String() string {
	return strconv.FormatInt(int64(u), 10)
}

// Profile is display data owned by the profile collaborator.
// It is used for enrichment only, never for authorization.
type Profile struct {
	ID           UserID
	Name         string
	ProfileImage string
}

// UnknownProfile is shown when the profile collaborator has no record.
func UnknownProfile(id UserID) Profile {
	return Profile{ID: id, Name: "Unknown"}
}
