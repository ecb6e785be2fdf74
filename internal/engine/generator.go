package engine

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"db-scaffold/internal/schema"

	"github.com/brianvoe/gofakeit/v6"
)

// Dates are drawn from a fixed window so a seeded run is reproducible.
var (
	dateFrom = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	dateTo   = time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)
)

var statuses = []string{"active", "inactive", "pending", "archived"}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) > limit {
		return string(runes[:limit])
	}
	return s
}

// GenerateValue returns a fake value for col. The data type decides the Go
// type of the value, the column's meaning decides its content.
func GenerateValue(f *gofakeit.Faker, col *schema.ColumnInfo, tableName string) any {
	meaning := schema.Category(col.ColumnName)

	switch col.DataType {
	case schema.TypeBoolean:
		return f.Bool()

	case schema.TypeDate:
		return f.DateRange(dateFrom, dateTo).Truncate(time.Second)

	case schema.TypeFloat:
		switch meaning {
		case "latitude":
			return f.Latitude()
		case "longitude":
			return f.Longitude()
		}
		return f.Price(0.99, 999.99)

	case schema.TypeNumber:
		switch meaning {
		case "yesno":
			return f.Number(0, 1)
		case "count":
			return f.Number(0, 100)
		case "price":
			return f.Number(1, 1000)
		}
		if strings.Contains(strings.ToLower(col.ColumnName), "year") {
			return f.Number(2000, 2025)
		}
		return f.Number(1, 50000)

	case schema.TypeBigInt:
		v := new(big.Int).SetUint64(uint64(f.Uint32()))
		return v.Mul(v, big.NewInt(1<<32)).Add(v, big.NewInt(int64(f.Uint32())))

	case schema.TypeString:
		s := generateString(f, meaning, col, tableName)
		if col.Unique {
			return truncate(s, 255)
		}
		return s

	default:
		// Types only seen as null or never seen carry no information.
		if col.Nullable() {
			return nil
		}
		return f.Word()
	}
}

func generateString(f *gofakeit.Faker, meaning string, col *schema.ColumnInfo, tableName string) string {
	switch meaning {
	case "email":
		return f.Email()
	case "password":
		return f.Password(true, true, true, false, false, 12)
	case "phone":
		return f.Phone()
	case "zipcode":
		return f.Zip()
	case "address":
		return f.Street()
	case "city":
		return f.City()
	case "country":
		return f.Country()
	case "username":
		return f.Username()
	case "firstname":
		return f.FirstName()
	case "lastname":
		return f.LastName()
	case "name":
		if strings.Contains(tableName, "product") {
			return f.ProductName()
		}
		return f.Name()
	case "title":
		return strings.TrimSuffix(f.Sentence(4), ".")
	case "description":
		return f.Paragraph(1, 3, 12, " ")
	case "url":
		return f.URL()
	case "image":
		return f.ImageURL(640, 480)
	case "slug":
		return strings.ToLower(f.Adjective() + "-" + f.Noun() + "-" + f.DigitN(4))
	case "uuid":
		return f.UUID()
	case "sku":
		return strings.ToUpper(f.LetterN(3)) + "-" + f.DigitN(6)
	case "price":
		return fmt.Sprintf("%.2f", f.Price(0.99, 999.99))
	case "count":
		return fmt.Sprintf("%d", f.Number(0, 100))
	case "yesno":
		if f.Bool() {
			return "Y"
		}
		return "N"
	case "latitude":
		return fmt.Sprintf("%.6f", f.Latitude())
	case "longitude":
		return fmt.Sprintf("%.6f", f.Longitude())
	case "ip":
		return f.IPv4Address()
	case "date":
		return f.DateRange(dateFrom, dateTo).Format("2006-01-02")
	case "status":
		return f.RandomString(statuses)
	case "company":
		return f.Company()
	case "color":
		return f.Color()
	}

	// Foreign-key-shaped text without a parent pool.
	if strings.HasSuffix(col.ColumnName, "_id") {
		return f.UUID()
	}
	return f.Sentence(3)
}
