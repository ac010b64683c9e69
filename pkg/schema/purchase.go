package schema

import "time"

const PurchaseSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "purchase_completed",
	"fields": [
		{"name": "order_id", "type": "string"},
		{"name": "username", "type": "string"},
		{"name": "records", "type": {
			"type": "array",
			"items": {
				"type": "record",
				"name": "purchase_record",
				"fields": [
					{"name": "product_id", "type": "long"},
					{"name": "quantity", "type": "long"},
					{"name": "total_price", "type": "string"}
				]
			}
		}},
		{"name": "total", "type": "string"},
		{"name": "completed_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

// Prices are decimal strings to keep them exact.
type (
	PurchaseV1 struct {
		OrderID     string             `avro:"order_id"`
		Username    string             `avro:"username"`
		Records     []PurchaseRecordV1 `avro:"records"`
		Total       string             `avro:"total"`
		CompletedAt time.Time          `avro:"completed_at"`
	}

	PurchaseRecordV1 struct {
		ProductID  int    `avro:"product_id"`
		Quantity   int    `avro:"quantity"`
		TotalPrice string `avro:"total_price"`
	}
)
