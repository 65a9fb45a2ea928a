package mongostore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestRecordDoc(t *testing.T) {
	now := time.Date(2024, 9, 3, 14, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	nowFunc = func() time.Time { return now }
	defer func() { nowFunc = time.Now }()

	doc := newDoc("hostel_menu", []byte(`{"Monday":{}}`))
	assert.Equal(t, recordDoc{Key: "hostel_menu", Value: `{"Monday":{}}`, UpdatedAt: now.UTC()}, doc)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))
	assert.Equal(t, "hostel_menu", m["_id"])
	assert.Equal(t, `{"Monday":{}}`, m["value"])
}
