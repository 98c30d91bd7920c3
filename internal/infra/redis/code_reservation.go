package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CodeReservations holds candidate activation codes in Redis while a
// registration is in flight, so issuers on other instances skip them.
// Keys expire on their own if the holder dies before releasing.
type CodeReservations struct {
	client RedisClient
	owner  string
}

func NewCodeReservations(client RedisClient) *CodeReservations {
	return &CodeReservations{client: client, owner: uuid.NewString()}
}

func reservationKey(code string) string {
	return "activation_code:reserved:" + code
}

func (r *CodeReservations) Reserve(ctx context.Context, code string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, reservationKey(code), r.owner, ttl)
}

// Release drops the reservation if this instance still owns it.
func (r *CodeReservations) Release(ctx context.Context, code string) error {
	_, err := r.client.CompareAndDelete(ctx, reservationKey(code), r.owner)
	return err
}
