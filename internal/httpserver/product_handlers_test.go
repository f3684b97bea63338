package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func createReq(name string, seller uuid.UUID) CreateProductRequest {
	return CreateProductRequest{
		Name:        name,
		Description: "desc",
		Category:    "widgets",
		Price:       9.99,
		Stock:       5,
		SellerID:    seller,
	}
}

func createProduct(t *testing.T, env *testEnv, req CreateProductRequest) uuid.UUID {
	t.Helper()

	rec, c := env.doJSONRequest(http.MethodPost, "/api/products", req)
	asSeller(c, req.SellerID)
	require.NoError(t, env.Prod.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Product struct {
			ID uuid.UUID `json:"id"`
		} `json:"product"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEqual(t, uuid.Nil, resp.Product.ID)
	return resp.Product.ID
}

func TestCreateProductMissingFields(t *testing.T) {
	env := newTestEnv(t)
	seller := uuid.New()

	rec, c := env.doJSONRequest(http.MethodPost, "/api/products", CreateProductRequest{
		Description: "no name",
		Category:    "widgets",
		Price:       1,
		SellerID:    seller,
	})
	asSeller(c, seller)
	require.NoError(t, env.Prod.CreateProduct(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[ErrorResponse](t, rec)
	require.Equal(t, "missing required fields", resp.Error)
}

func TestCreateProductAsOwningSeller(t *testing.T) {
	env := newTestEnv(t)
	seller := uuid.New()

	req := createReq("lamp", seller)
	rec, c := env.doJSONRequest(http.MethodPost, "/api/products", req)
	asSeller(c, seller)
	require.NoError(t, env.Prod.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Message string `json:"message"`
		Product struct {
			ID       uuid.UUID `json:"id"`
			Name     string    `json:"name"`
			SellerID uuid.UUID `json:"seller_id"`
		} `json:"product"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "product created", resp.Message)
	require.NotEqual(t, uuid.Nil, resp.Product.ID)
	require.Equal(t, "lamp", resp.Product.Name)
	require.Equal(t, seller, resp.Product.SellerID)
}

func TestCreateProductForAnotherSeller(t *testing.T) {
	env := newTestEnv(t)
	caller, other := uuid.New(), uuid.New()

	rec, c := env.doJSONRequest(http.MethodPost, "/api/products", createReq("stolen", other))
	asSeller(c, caller)
	require.NoError(t, env.Prod.CreateProduct(c))
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Admins may act for any seller.
	rec, c = env.doJSONRequest(http.MethodPost, "/api/products", createReq("curated", other))
	asAdmin(c)
	require.NoError(t, env.Prod.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestGetProductByID(t *testing.T) {
	env := newTestEnv(t)
	id := createProduct(t, env, createReq("chair", uuid.New()))

	rec, c := env.doJSONRequest(http.MethodGet, "/api/products/"+id.String(), nil)
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	require.NoError(t, env.Prod.GetProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, c = env.doJSONRequest(http.MethodGet, "/api/products/"+uuid.NewString(), nil)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())
	require.NoError(t, env.Prod.GetProduct(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv(t)
	seller := uuid.New()
	id := createProduct(t, env, createReq("doomed", seller))

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/products/"+id.String(), nil)
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	asSeller(c, seller)
	require.NoError(t, env.Prod.DeleteProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, c = env.doJSONRequest(http.MethodDelete, "/api/products/"+id.String(), nil)
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	asSeller(c, seller)
	require.NoError(t, env.Prod.DeleteProduct(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProductOfAnotherSeller(t *testing.T) {
	env := newTestEnv(t)
	owner, intruder := uuid.New(), uuid.New()
	id := createProduct(t, env, createReq("guarded", owner))

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/products/"+id.String(), nil)
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	asSeller(c, intruder)
	require.NoError(t, env.Prod.DeleteProduct(c))
	require.Equal(t, http.StatusForbidden, rec.Code)

	// The row survives, and an admin may still remove it.
	rec, c = env.doJSONRequest(http.MethodDelete, "/api/products/"+id.String(), nil)
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	asAdmin(c)
	require.NoError(t, env.Prod.DeleteProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetProductsWithCategoryAndWindow(t *testing.T) {
	env := newTestEnv(t)
	seller := uuid.New()

	for i := 0; i < 3; i++ {
		createProduct(t, env, createReq(fmt.Sprintf("w-%d", i), seller))
	}
	other := createReq("standalone", seller)
	other.Category = "gadgets"
	createProduct(t, env, other)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/products?category=widgets&limit=2&offset=0", nil)
	require.NoError(t, env.Prod.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[ProductListResponse](t, rec)
	require.True(t, resp.Success)
	require.Equal(t, int64(3), resp.Total)
	require.Len(t, resp.Products, 2)
	require.Equal(t, "widgets", resp.Category)

	rec, c = env.doJSONRequest(http.MethodGet, "/api/products?category=none", nil)
	require.NoError(t, env.Prod.GetProducts(c))
	resp = decode[ProductListResponse](t, rec)
	require.Equal(t, int64(0), resp.Total)
	require.NotNil(t, resp.Products)
	require.Empty(t, resp.Products)
}

func TestBulkUpload(t *testing.T) {
	env := newTestEnv(t)
	seller := uuid.New()

	prods := make([]CreateProductRequest, 150)
	for i := range prods {
		prods[i] = createReq(fmt.Sprintf("bulk-%03d", i), seller)
	}

	rec, c := env.doJSONRequest(http.MethodPost, "/api/products/bulk-upload", BulkUploadRequest{
		Products: prods,
		SellerID: seller,
	})
	asSeller(c, seller)
	require.NoError(t, env.Prod.BulkUpload(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decode[BulkUploadResponse](t, rec)
	require.Equal(t, 150, resp.Count)
	require.Len(t, resp.Products, 150)
	require.Equal(t, seller, resp.SellerID)

	rec, c = env.doJSONRequest(http.MethodGet, "/api/products?limit=200", nil)
	require.NoError(t, env.Prod.GetProducts(c))
	require.Equal(t, int64(150), decode[ProductListResponse](t, rec).Total)
}

func TestBulkUploadForAnotherSeller(t *testing.T) {
	env := newTestEnv(t)
	caller, other := uuid.New(), uuid.New()

	rec, c := env.doJSONRequest(http.MethodPost, "/api/products/bulk-upload", BulkUploadRequest{
		Products: []CreateProductRequest{createReq("x", other)},
		SellerID: other,
	})
	asSeller(c, caller)
	require.NoError(t, env.Prod.BulkUpload(c))
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec, c = env.doJSONRequest(http.MethodGet, "/api/products", nil)
	require.NoError(t, env.Prod.GetProducts(c))
	require.Equal(t, int64(0), decode[ProductListResponse](t, rec).Total)
}

func TestBulkUploadValidationDetails(t *testing.T) {
	env := newTestEnv(t)
	seller := uuid.New()

	prods := []CreateProductRequest{
		createReq("ok", seller),
		{Description: "no name", Category: "widgets", Price: 1},
	}

	rec, c := env.doJSONRequest(http.MethodPost, "/api/products/bulk-upload", BulkUploadRequest{
		Products: prods,
		SellerID: seller,
	})
	asSeller(c, seller)
	require.NoError(t, env.Prod.BulkUpload(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "validation failed", resp.Error)
	require.Len(t, resp.Details, 1)
	require.Contains(t, resp.Details[0], "row 2")

	// Nothing from the rejected batch may land in the catalog.
	rec, c = env.doJSONRequest(http.MethodGet, "/api/products", nil)
	require.NoError(t, env.Prod.GetProducts(c))
	require.Equal(t, int64(0), decode[ProductListResponse](t, rec).Total)
}

func TestBulkUploadMissingSeller(t *testing.T) {
	env := newTestEnv(t)
	caller := uuid.New()

	rec, c := env.doJSONRequest(http.MethodPost, "/api/products/bulk-upload", BulkUploadRequest{
		Products: []CreateProductRequest{createReq("x", caller)},
	})
	asSeller(c, caller)
	require.NoError(t, env.Prod.BulkUpload(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
