package models

import "time"

// Profile is a read-mostly projection of account data owned by the
// accounts service: the push token for notifications and, for mentors,
// session pricing per offered duration.
type Profile struct {
	UserID   string `bson:"user_id" json:"userId"`
	FCMToken string `bson:"fcm_token,omitempty" json:"-"`

	Price30Cents int64  `bson:"price_30_cents,omitempty" json:"price30Cents,omitempty"`
	Price60Cents int64  `bson:"price_60_cents,omitempty" json:"price60Cents,omitempty"`
	Currency     string `bson:"currency,omitempty" json:"currency,omitempty"`

	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
