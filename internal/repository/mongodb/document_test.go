package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/freightledger/internal/domain/models"
	"github.com/mamadbah2/freightledger/internal/repository"
)

var _ repository.RecordStore = (*MongoDBRepository)(nil)

func decode(t *testing.T, doc bson.M) models.Record {
	t.Helper()
	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var out recordDocument
	require.NoError(t, bson.Unmarshal(raw, &out))
	return out.toRecord()
}

func TestDecodeRecordWithDateValues(t *testing.T) {
	oid := primitive.NewObjectID()
	record := decode(t, bson.M{
		"_id":           oid,
		"ship_date":     time.Date(2025, time.March, 5, 13, 30, 0, 0, time.UTC),
		"shop_name":     "Daehan Shoes",
		"memo":          "sneakers",
		"destination":   "Busan",
		"supply_amount": int32(100000),
		"qty":           int64(50),
		"paid_date":     nil,
		"total":         int64(1),
	})

	assert.Equal(t, oid.Hex(), record.ID)
	assert.Equal(t, models.DatePtr(2025, time.March, 5), record.ShipDate)
	assert.Equal(t, int64(110000), record.Total, "stored derived fields are recomputed")
	assert.Equal(t, int64(2000), record.UnitFare)
	assert.False(t, record.Paid)
	assert.Equal(t, "sneakers (Busan)", record.Label())
}

func TestDecodeRecordWithStringDates(t *testing.T) {
	record := decode(t, bson.M{
		"_id":           primitive.NewObjectID(),
		"ship_date":     "2025-03-20",
		"supply_amount": int64(50000),
		"qty":           int64(20),
		"paid_date":     "2025-03-25",
	})

	assert.Equal(t, models.DatePtr(2025, time.March, 20), record.ShipDate)
	assert.Equal(t, models.DatePtr(2025, time.March, 25), record.PaidDate)
	assert.True(t, record.Paid)
}

func TestDecodeMalformedDatesAsAbsent(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
	}{
		{name: "garbage string", value: "next tuesday"},
		{name: "number", value: int32(20250305)},
		{name: "null", value: nil},
		{name: "empty string", value: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := decode(t, bson.M{
				"_id":           primitive.NewObjectID(),
				"ship_date":     tt.value,
				"supply_amount": int64(1000),
				"qty":           int64(1),
			})
			assert.Nil(t, record.ShipDate)
		})
	}
}

func TestDecodeMissingDates(t *testing.T) {
	record := decode(t, bson.M{"_id": primitive.NewObjectID(), "supply_amount": int64(10)})
	assert.Nil(t, record.ShipDate)
	assert.Nil(t, record.PaidDate)
	assert.Equal(t, int64(11), record.Total)
}

func TestRecordWriteCarriesDerivedFields(t *testing.T) {
	w := newRecordWrite(models.RecordFields{
		ShipDate:     models.DatePtr(2025, time.March, 5),
		SupplyAmount: 100000,
		Qty:          50,
		PaidDate:     models.DatePtr(2025, time.March, 25),
	})

	assert.Equal(t, int64(10000), w.Tax)
	assert.Equal(t, int64(110000), w.Total)
	assert.Equal(t, int64(2000), w.UnitFare)
	assert.True(t, w.Paid)
}

func TestObjectIDRejectsForeignIDs(t *testing.T) {
	_, err := objectID("not-an-object-id")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	oid := primitive.NewObjectID()
	got, err := objectID(oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, oid, got)
}
