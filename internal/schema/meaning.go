package schema

import "strings"

var abbreviations = map[string]string{
	// Common nouns
	"nm": "name", "dt": "date", "no": "number", "cd": "code",
	"desc": "description", "amt": "amount", "cnt": "count", "qty": "quantity",
	"addr": "address", "tel": "phone", "ph": "phone", "mob": "phone",
	"biz": "business", "pwd": "password", "passwd": "password", "pw": "password",
	"img": "image", "pic": "image", "avatar": "image", "url": "url", "link": "url",
	"ip": "ip", "zip": "zipcode", "postcode": "zipcode",
	"msg": "message", "txt": "text", "subj": "subject",
	"doc": "document", "usr": "user", "emp": "employee",
	"dept": "department", "grp": "group", "cat": "category",
	"loc": "location", "lat": "latitude", "lng": "longitude", "lon": "longitude",
	"st": "street", "prov": "province", "dist": "district",
	"bal": "balance", "avg": "average", "uid": "id", "pid": "id",

	// Verbs / status
	"reg": "registered", "mod": "modified", "del": "deleted", "cre": "created",
	"upd": "updated", "yn": "yesno", "stat": "status", "sts": "status",
	"typ": "type", "val": "value", "seq": "sequence", "idx": "index",
	"is": "yesno", "has": "yesno", "flg": "flag",
}

// meaningKeywords maps a decoded word to the category the mock-data
// generator understands. First match wins, so order matters.
var meaningKeywords = []struct {
	word     string
	category string
}{
	{"email", "email"}, {"mail", "email"},
	{"password", "password"},
	{"phone", "phone"}, {"mobile", "phone"},
	{"zipcode", "zipcode"}, {"postal", "zipcode"},
	{"address", "address"}, {"street", "address"},
	{"city", "city"}, {"country", "country"},
	{"username", "username"}, {"login", "username"},
	{"firstname", "firstname"}, {"first", "firstname"},
	{"lastname", "lastname"}, {"last", "lastname"},
	{"name", "name"},
	{"title", "title"}, {"subject", "title"},
	{"description", "description"}, {"content", "description"}, {"body", "description"},
	{"comment", "description"}, {"text", "description"}, {"message", "description"},
	{"url", "url"}, {"website", "url"}, {"image", "image"},
	{"slug", "slug"}, {"uuid", "uuid"}, {"guid", "uuid"}, {"token", "uuid"},
	{"sku", "sku"}, {"code", "sku"},
	{"price", "price"}, {"amount", "price"}, {"cost", "price"}, {"total", "price"}, {"balance", "price"},
	{"quantity", "count"}, {"count", "count"}, {"stock", "count"},
	{"yesno", "yesno"}, {"flag", "yesno"}, {"active", "yesno"}, {"enabled", "yesno"},
	{"latitude", "latitude"}, {"longitude", "longitude"},
	{"ip", "ip"},
	{"date", "date"}, {"created", "date"}, {"updated", "date"}, {"deleted", "date"}, {"time", "date"},
	{"status", "status"},
	{"company", "company"},
	{"color", "color"},
}

// AnalyzeMeaning expands abbreviations in a column name and returns the
// decoded words joined by spaces, e.g. "usr_nm" -> "user name".
func AnalyzeMeaning(colName string) string {
	parts := strings.Split(strings.ToLower(colName), "_")
	decoded := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		if full, ok := abbreviations[part]; ok {
			decoded = append(decoded, full)
		} else {
			decoded = append(decoded, part)
		}
	}
	return strings.Join(decoded, " ")
}

// Category classifies a column name into a coarse meaning ("email",
// "name", "price", ...). It returns "" when nothing matches.
func Category(colName string) string {
	words := strings.Fields(AnalyzeMeaning(colName))
	joined := strings.Join(words, "")
	for _, kw := range meaningKeywords {
		if joined == kw.word {
			return kw.category
		}
	}
	for _, kw := range meaningKeywords {
		for _, w := range words {
			if w == kw.word {
				return kw.category
			}
		}
	}
	return ""
}
