package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-4))
	assert.Equal(t, 10, NormalizeLimit(10))
	assert.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+1))
}

func TestParamsRange(t *testing.T) {
	p := Params{Start: 10, End: 20}
	assert.Equal(t, 10, p.Offset())
	assert.Equal(t, 10, p.Limit())

	p = Params{Start: -5}
	assert.Equal(t, 0, p.Offset())
	assert.Equal(t, DefaultLimit, p.Limit())
}

func TestOrderClauseUsesAllowList(t *testing.T) {
	allowed := map[string]string{"seq": "seq", "supplierName": "supplier_name"}

	p := Params{Sort: "supplierName", Order: ParseOrder("asc")}
	assert.Equal(t, "supplier_name ASC", p.OrderClause(allowed, "seq"))

	p = Params{Sort: "id; DROP TABLE parts", Order: ParseOrder("")}
	assert.Equal(t, "seq DESC", p.OrderClause(allowed, "seq"))
}
