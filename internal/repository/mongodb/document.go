package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/freightledger/internal/domain/models"
)

// recordWrite is the persisted shape of a record body. Derived fields are
// stored for readability of the raw collection only.
type recordWrite struct {
	ShipDate     *time.Time `bson:"ship_date"`
	BizNumber    string     `bson:"biz_number"`
	ShopName     string     `bson:"shop_name"`
	Name         string     `bson:"name"`
	Phone        string     `bson:"phone"`
	Account      string     `bson:"account"`
	Bank         string     `bson:"bank"`
	Memo         string     `bson:"memo"`
	Destination  string     `bson:"destination"`
	SupplyAmount int64      `bson:"supply_amount"`
	Qty          int64      `bson:"qty"`
	PaidDate     *time.Time `bson:"paid_date"`
	Tax          int64      `bson:"tax"`
	Total        int64      `bson:"total"`
	UnitFare     int64      `bson:"unit_fare"`
	Paid         bool       `bson:"paid"`
}

func newRecordWrite(fields models.RecordFields) recordWrite {
	f := fields.Normalize()
	return recordWrite{
		ShipDate:     f.ShipDate,
		BizNumber:    f.BizNumber,
		ShopName:     f.ShopName,
		Name:         f.Name,
		Phone:        f.Phone,
		Account:      f.Account,
		Bank:         f.Bank,
		Memo:         f.Memo,
		Destination:  f.Destination,
		SupplyAmount: f.SupplyAmount,
		Qty:          f.Qty,
		PaidDate:     f.PaidDate,
		Tax:          f.Tax,
		Total:        f.Total,
		UnitFare:     f.UnitFare,
		Paid:         f.Paid,
	}
}

// recordDocument is the read shape. Dates stay raw because older documents
// carry them as strings.
type recordDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	ShipDate     bson.RawValue      `bson:"ship_date"`
	BizNumber    string             `bson:"biz_number"`
	ShopName     string             `bson:"shop_name"`
	Name         string             `bson:"name"`
	Phone        string             `bson:"phone"`
	Account      string             `bson:"account"`
	Bank         string             `bson:"bank"`
	Memo         string             `bson:"memo"`
	Destination  string             `bson:"destination"`
	SupplyAmount int64              `bson:"supply_amount"`
	Qty          int64              `bson:"qty"`
	PaidDate     bson.RawValue      `bson:"paid_date"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (d recordDocument) toRecord() models.Record {
	return models.Record{
		ID: d.ID.Hex(),
		RecordFields: models.RecordFields{
			ShipDate:     decodeDate(d.ShipDate),
			BizNumber:    d.BizNumber,
			ShopName:     d.ShopName,
			Name:         d.Name,
			Phone:        d.Phone,
			Account:      d.Account,
			Bank:         d.Bank,
			Memo:         d.Memo,
			Destination:  d.Destination,
			SupplyAmount: d.SupplyAmount,
			Qty:          d.Qty,
			PaidDate:     decodeDate(d.PaidDate),
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}.Normalize()
}

// decodeDate accepts BSON dates and date strings. Anything else, including a
// malformed string, decodes as absent.
func decodeDate(v bson.RawValue) *time.Time {
	switch v.Type {
	case bsontype.DateTime:
		dt, ok := v.DateTimeOK()
		if !ok {
			return nil
		}
		t := time.UnixMilli(dt).UTC()
		return &t
	case bsontype.Timestamp:
		sec, _, ok := v.TimestampOK()
		if !ok {
			return nil
		}
		t := time.Unix(int64(sec), 0).UTC()
		return &t
	case bsontype.String:
		s, ok := v.StringValueOK()
		if !ok {
			return nil
		}
		t, err := models.ParseDate(s)
		if err != nil {
			return nil
		}
		return t
	default:
		return nil
	}
}
