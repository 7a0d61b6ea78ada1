package database

import "errors"

// ErrApartmentBooked is returned when a booking targets an apartment that
// already has a tenant.
var ErrApartmentBooked = errors.New("apartment is already booked")
