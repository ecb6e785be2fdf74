package naming_test

import (
	"testing"

	"db-scaffold/internal/naming"

	"github.com/stretchr/testify/assert"
)

func TestNames(t *testing.T) {
	assert.Equal(t, "OrderProduct", naming.Pascal("order_product"))
	assert.Equal(t, "UserId", naming.Pascal("USER_ID"))
	assert.Equal(t, "orderProduct", naming.Camel("order_product"))
	assert.Equal(t, "", naming.Camel(""))

	assert.Equal(t, "User", naming.Model("users"))
	assert.Equal(t, "OrderProduct", naming.Model("order_products"))
	assert.Equal(t, "Category", naming.Model("category"))

	assert.Equal(t, "order_products", naming.Plural("order_product"))
	assert.Equal(t, "categories", naming.Plural("category"))
	assert.Equal(t, "person", naming.Singular("people"))

	assert.Equal(t, "UserID", naming.GoName("user_id"))
	assert.Equal(t, "FirstName", naming.GoName("first name"))
	assert.Equal(t, "X2fa", naming.GoName("2fa"))
	assert.Equal(t, "X", naming.GoName("#"))
}
