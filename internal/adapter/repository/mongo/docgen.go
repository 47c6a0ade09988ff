package mongo

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const alphanumerics = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var statuses = []string{"active", "inactive", "pending"}

func randomString(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = alphanumerics[rand.IntN(len(alphanumerics))]
	}
	return string(b)
}

func randomStatus() string {
	return statuses[rand.IntN(len(statuses))]
}

// randomDocument builds one synthetic document, sized and shaped so that
// bulk inserts and unindexed queries over it generate realistic IO.
func randomDocument() bson.M {
	now := time.Now().UTC()
	tags := make([]string, 1+rand.IntN(10))
	for i := range tags {
		tags[i] = randomString(10)
	}

	return bson.M{
		"doc_id":  uuid.NewString(),
		"name":    randomString(50),
		"email":   randomString(10) + "@example.com",
		"age":     18 + rand.IntN(63),
		"balance": rand.Float64() * 100000,
		"status":  randomStatus(),
		"tags":    tags,
		"metadata": bson.M{
			"created_at": now,
			"updated_at": now,
			"version":    1 + rand.IntN(100),
			"data":       randomString(500),
		},
		"description": randomString(1000),
	}
}
