package handler

import (
	"fmt"
	"time"

	"github.com/whiskerworks/cats-api/internal/core/domain"
	"github.com/whiskerworks/cats-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateCatInput(req createCatRequest) (ports.CreateCatInput, error) {
	birthdate, err := parseDate(req.Birthdate)
	if err != nil {
		return ports.CreateCatInput{}, err
	}
	return ports.CreateCatInput{
		Name:      req.CatName,
		Weight:    req.Weight,
		Filename:  req.Filename,
		Birthdate: birthdate,
		Lon:       req.Location.Coordinates[0],
		Lat:       req.Location.Coordinates[1],
	}, nil
}

func toUpdateCatInput(req updateCatRequest) (ports.UpdateCatInput, error) {
	in := ports.UpdateCatInput{
		Name:     req.CatName,
		Weight:   req.Weight,
		OwnerID:  req.Owner,
		Filename: req.Filename,
	}
	if req.Birthdate != nil {
		bd, err := parseDate(*req.Birthdate)
		if err != nil {
			return in, err
		}
		in.Birthdate = &bd
	}
	if req.Location != nil {
		lon, lat := req.Location.Coordinates[0], req.Location.Coordinates[1]
		in.Lon, in.Lat = &lon, &lat
	}
	return in, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: birthdate must be formatted as %s", domain.ErrInvalidArgument, dateLayout)
	}
	return t, nil
}

// --- Domain → HTTP response ---

func toPublicUser(u *domain.User) publicUser {
	return publicUser{ID: u.ID, UserName: u.UserName, Email: u.Email}
}

func toPublicUsers(users []*domain.User) []publicUser {
	out := make([]publicUser, len(users))
	for i, u := range users {
		out[i] = toPublicUser(u)
	}
	return out
}

func toPrincipalResponse(p domain.Principal) principalResponse {
	return principalResponse{ID: p.ID, UserName: p.UserName, Email: p.Email, Role: string(p.Role)}
}

func toCatResponse(d ports.CatDetail) catResponse {
	c := d.Cat
	var owner any = c.OwnerID
	if d.Owner != nil {
		owner = toPublicUser(d.Owner)
	}

	resp := catResponse{
		ID:       c.ID,
		CatName:  c.Name,
		Weight:   c.Weight,
		Owner:    owner,
		Filename: c.Filename,
		Location: locationResponse{
			Type:        domain.GeoJSONPoint,
			Coordinates: [2]float64{c.Location.Lon(), c.Location.Lat()},
		},
	}
	if !c.Birthdate.IsZero() {
		resp.Birthdate = c.Birthdate.UTC().Format(dateLayout)
	}
	return resp
}

func toCatResponses(details []ports.CatDetail) []catResponse {
	out := make([]catResponse, len(details))
	for i, d := range details {
		out[i] = toCatResponse(d)
	}
	return out
}
