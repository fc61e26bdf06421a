package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"laptopshop/auth"
	"laptopshop/cart"
	"laptopshop/catalog"
	"laptopshop/checkout"
	"laptopshop/config"
	"laptopshop/controllers"
	"laptopshop/middleware"
	"laptopshop/orders"
	"laptopshop/routes"
	"laptopshop/session"
	"laptopshop/state"
	"laptopshop/upload"
	"laptopshop/utils"
	"laptopshop/wishlist"
)

const adminPassword = "admin-pass"

type testServer struct {
	app     *fiber.App
	h       *controllers.Handler
	session string
	token   string
}

type serverOptions struct {
	secret         string
	processor      checkout.PaymentProcessor
	paymentTimeout time.Duration
}

func newServer(t *testing.T) *testServer {
	return newServerWith(t, serverOptions{})
}

func newServerWith(t *testing.T, opts serverOptions) *testServer {
	t.Helper()
	if opts.secret == "" {
		opts.secret = "test-secret"
	}
	if opts.processor == nil {
		opts.processor = &checkout.SimulatedProcessor{}
	}
	tokens := utils.NewJWT(opts.secret, time.Hour)
	sessions := state.NewMemoryStore()
	store := catalog.NewMemoryStore(state.NewMemoryStore(), catalog.DefaultLaptops())

	h := &controllers.Handler{
		Catalog:   store,
		Wishlists: wishlist.NewMemoryRepo(store),
		Orders:    orders.NewMemoryRecorder(),
		Uploads:   upload.DefaultLimits(),
		Tokens:    tokens,

		PaymentTimeout: opts.paymentTimeout,
	}
	h.Auth = auth.NewService(auth.NewMemoryUsers(), sessions, tokens, adminPassword).WithCost(bcrypt.MinCost)
	h.Sessions = session.NewRegistry(session.Options{
		Store:        sessions,
		Users:        h.Auth,
		Processor:    opts.processor,
		Orders:       h.Orders,
		ConfirmDelay: time.Hour,
	})

	app := fiber.New()
	routes.RegisterRoutes(app, h, tokens)
	return &testServer{app: app, h: h, session: session.NewID()}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return s.send(t, req)
}

func (s *testServer) send(t *testing.T, req *http.Request) (*http.Response, map[string]interface{}) {
	t.Helper()
	req.Header.Set(middleware.SessionHeader, s.session)
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("Bad JSON %q: %v", raw, err)
		}
	}
	return resp, out
}

func (s *testServer) signInAdmin(t *testing.T) {
	t.Helper()
	resp, body := s.do(t, "POST", "/auth/admin", map[string]string{"password": adminPassword})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected admin sign-in 200, got %d", resp.StatusCode)
	}
	s.token = body["token"].(string)
}

func (s *testServer) list(t *testing.T, path string) []interface{} {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	req.Header.Set(middleware.SessionHeader, s.session)
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200 from %s, got %d", path, resp.StatusCode)
	}
	var out []interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	return out
}

func (s *testServer) signInCustomer(t *testing.T) {
	t.Helper()
	in := map[string]string{"email": "ann@example.com", "password": "secret1", "firstName": "Ann", "lastName": "Banda"}
	if resp, _ := s.do(t, "POST", "/auth/register", in); resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("Expected 201 on register, got %d", resp.StatusCode)
	}
	resp, body := s.do(t, "POST", "/auth/signin", map[string]string{"email": in["email"], "password": in["password"]})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200 on sign-in, got %d", resp.StatusCode)
	}
	s.token = body["token"].(string)
}

func TestListLaptops(t *testing.T) {
	s := newServer(t)

	req := httptest.NewRequest("GET", "/laptops?brand=Dell", nil)
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	var laptops []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&laptops); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(laptops) != 1 || laptops[0]["brand"] != "Dell" {
		t.Errorf("Expected one Dell laptop, got %v", laptops)
	}
	if !session.ValidID(resp.Header.Get(middleware.SessionHeader)) {
		t.Errorf("Expected session header on response")
	}
}

func TestLaptopWritesRequireAdmin(t *testing.T) {
	s := newServer(t)
	resp, _ := s.do(t, "POST", "/laptops", map[string]string{"name": "X", "brand": "Y", "price": "1"})
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 without admin token, got %d", resp.StatusCode)
	}
}

func TestLaptopCRUD(t *testing.T) {
	s := newServer(t)
	s.signInAdmin(t)

	resp, body := s.do(t, "POST", "/laptops", map[string]string{"name": "X"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected 400 for missing fields, got %d", resp.StatusCode)
	}
	if fields, _ := body["fields"].([]interface{}); len(fields) != 2 {
		t.Errorf("Expected brand and price reported missing, got %v", body["fields"])
	}

	resp, body = s.do(t, "POST", "/laptops", map[string]string{"name": "X", "brand": "Y", "price": "1000"})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	if body["rating"] != 4.5 || body["badge"] != "New" || body["in_stock"] != true {
		t.Errorf("Expected defaults applied, got %v", body)
	}
	id := int(body["id"].(float64))
	path := "/laptops/" + strconv.Itoa(id)

	resp, body = s.do(t, "PUT", path, map[string]interface{}{"price": "900"})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200 on update, got %d", resp.StatusCode)
	}
	if body["price"] != "900" || body["name"] != "X" {
		t.Errorf("Expected partial update, got %v", body)
	}

	resp, _ = s.do(t, "PUT", path, map[string]interface{}{"name": ""})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected 400 for blank name, got %d", resp.StatusCode)
	}

	resp, _ = s.do(t, "DELETE", path, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected 200 on delete, got %d", resp.StatusCode)
	}
	resp, _ = s.do(t, "GET", path, nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", resp.StatusCode)
	}
	resp, _ = s.do(t, "PUT", "/laptops/99999", map[string]interface{}{"price": "1"})
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected 404 updating missing laptop, got %d", resp.StatusCode)
	}
}

func TestAdminDeleteNeedsConfirm(t *testing.T) {
	s := newServer(t)
	s.signInAdmin(t)

	resp, _ := s.do(t, "DELETE", "/admin/laptops/1", nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected 400 without confirm, got %d", resp.StatusCode)
	}
	resp, _ = s.do(t, "DELETE", "/admin/laptops/1?confirm=true", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected 200 with confirm, got %d", resp.StatusCode)
	}
}

func TestUploadImages(t *testing.T) {
	s := newServer(t)
	s.signInAdmin(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="images"; filename="a.png"`)
	hdr.Set("Content-Type", "image/png")
	part, _ := w.CreatePart(hdr)
	part.Write([]byte("png-bytes"))
	w.Close()

	req := httptest.NewRequest("POST", "/admin/laptops/1/images", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, body := s.send(t, req)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d: %v", resp.StatusCode, body)
	}
	images := body["images"].([]interface{})
	last := images[len(images)-1].(string)
	if last != "data:image/png;base64,cG5nLWJ5dGVz" {
		t.Errorf("Expected data URI appended, got %q", last)
	}
}

func TestExportLaptops(t *testing.T) {
	s := newServer(t)
	s.signInAdmin(t)

	resp, _ := s.do(t, "GET", "/admin/laptops/export", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("Expected xlsx content type, got %q", ct)
	}
}

func TestDatabaseRoutesWithoutDB(t *testing.T) {
	s := newServer(t)
	s.signInAdmin(t)

	resp, _ := s.do(t, "GET", "/admin/db-status", nil)
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Errorf("Expected 503 without a database, got %d", resp.StatusCode)
	}
}

func TestRegisterAndSignIn(t *testing.T) {
	s := newServer(t)
	in := map[string]string{"email": "a@b.com", "password": "secret1", "firstName": "Ann", "lastName": "Banda"}

	resp, body := s.do(t, "POST", "/auth/register", in)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	user := body["user"].(map[string]interface{})
	if _, leaked := user["password_hash"]; leaked {
		t.Errorf("Expected no password hash in response")
	}

	resp, _ = s.do(t, "POST", "/auth/register", in)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected 400 for duplicate email, got %d", resp.StatusCode)
	}

	weak := map[string]string{"email": "c@d.com", "password": "123", "firstName": "C", "lastName": "D"}
	resp, _ = s.do(t, "POST", "/auth/register", weak)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected 400 for weak password, got %d", resp.StatusCode)
	}

	resp, _ = s.do(t, "POST", "/auth/signin", map[string]string{"email": "a@b.com", "password": "wrong"})
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 for wrong password, got %d", resp.StatusCode)
	}

	resp, body = s.do(t, "POST", "/auth/signin", map[string]string{"email": "a@b.com", "password": "secret1"})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if body["sessionId"] != s.session {
		t.Errorf("Expected sign-in bound to current session, got %v", body["sessionId"])
	}

	resp, body = s.do(t, "GET", "/auth/me", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200 from /auth/me, got %d", resp.StatusCode)
	}
	if body["user"].(map[string]interface{})["firstName"] != "Ann" {
		t.Errorf("Expected Ann, got %v", body["user"])
	}

	s.do(t, "POST", "/auth/signout", nil)
	resp, _ = s.do(t, "GET", "/auth/me", nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 after sign-out, got %d", resp.StatusCode)
	}
}

func TestCartFlow(t *testing.T) {
	s := newServer(t)

	resp, _ := s.do(t, "POST", "/cart/items", map[string]int{"laptop_id": 1})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	_, body := s.do(t, "POST", "/cart/items", map[string]int{"laptop_id": 2, "quantity": 2})
	if body["count"] != float64(3) {
		t.Errorf("Expected count 3, got %v", body["count"])
	}

	want := priceOf(t, s, 1) + 2*priceOf(t, s, 2)
	if body["total"] != float64(want) {
		t.Errorf("Expected total %d, got %v", want, body["total"])
	}

	_, body = s.do(t, "PUT", "/cart/items/2", map[string]int{"quantity": 0})
	if body["count"] != float64(1) {
		t.Errorf("Expected zero quantity to remove line, got count %v", body["count"])
	}

	resp, _ = s.do(t, "DELETE", "/cart/items/42", nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected 404 removing absent line, got %d", resp.StatusCode)
	}

	resp, _ = s.do(t, "POST", "/cart/items", map[string]int{"laptop_id": 99999})
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected 404 for unknown laptop, got %d", resp.StatusCode)
	}

	_, body = s.do(t, "DELETE", "/cart", nil)
	if body["count"] != float64(0) {
		t.Errorf("Expected empty cart, got %v", body["count"])
	}
}

func TestWishlistFlow(t *testing.T) {
	s := newServer(t)

	resp, _ := s.do(t, "POST", "/wishlist/items", map[string]int{"laptop_id": 3})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	resp, _ = s.do(t, "POST", "/wishlist/items", map[string]int{"laptop_id": 3})
	if resp.StatusCode != fiber.StatusConflict {
		t.Errorf("Expected 409 for duplicate, got %d", resp.StatusCode)
	}

	_, body := s.do(t, "GET", "/wishlist/items/3", nil)
	if body["saved"] != true {
		t.Errorf("Expected laptop 3 saved")
	}

	_, body = s.do(t, "POST", "/wishlist/items/3/cart", nil)
	if body["count"] != float64(1) {
		t.Errorf("Expected moved item in cart, got %v", body)
	}

	resp, _ = s.do(t, "DELETE", "/wishlist/items/3", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected 200 on remove, got %d", resp.StatusCode)
	}
	resp, _ = s.do(t, "DELETE", "/wishlist/items/3", nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected 404 on second remove, got %d", resp.StatusCode)
	}
}

func TestCheckoutFlow(t *testing.T) {
	s := newServer(t)

	resp, _ := s.do(t, "POST", "/checkout", nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected 400 for empty cart, got %d", resp.StatusCode)
	}

	s.do(t, "POST", "/cart/items", map[string]int{"laptop_id": 1})
	resp, body := s.do(t, "POST", "/checkout", nil)
	if resp.StatusCode != fiber.StatusCreated || body["state"] != "details" {
		t.Fatalf("Expected details step, got %d %v", resp.StatusCode, body)
	}

	resp, body = s.do(t, "POST", "/checkout/details", map[string]string{"firstName": "Ann"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected 400 for missing details, got %d", resp.StatusCode)
	}
	if fields, _ := body["fields"].([]interface{}); len(fields) != 4 {
		t.Errorf("Expected four missing fields, got %v", body["fields"])
	}

	details := map[string]string{
		"firstName": "Ann", "lastName": "Banda", "email": "a@b.com",
		"phone": "0977000000", "address": "Plot 1",
	}
	_, body = s.do(t, "POST", "/checkout/details", details)
	if body["state"] != "payment" {
		t.Fatalf("Expected payment step, got %v", body)
	}
	if body["details"].(map[string]interface{})["city"] != "Lusaka" {
		t.Errorf("Expected default city, got %v", body["details"])
	}

	resp, _ = s.do(t, "POST", "/checkout/payment", map[string]string{"method": "card", "cardNumber": "4111"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected 400 for incomplete card, got %d", resp.StatusCode)
	}

	_, body = s.do(t, "POST", "/checkout/payment", map[string]string{
		"method": "mobile", "mobileProvider": "airtel", "mobileNumber": "0977000000",
	})
	if body["state"] != "confirmed" {
		t.Fatalf("Expected confirmed, got %v", body)
	}
	if body["total"] != float64(priceOf(t, s, 1)) {
		t.Errorf("Expected snapshotted total, got %v", body["total"])
	}

	_, body = s.do(t, "POST", "/checkout/complete", nil)
	if body["cart"].(map[string]interface{})["count"] != float64(0) {
		t.Errorf("Expected cart cleared on completion, got %v", body["cart"])
	}
	resp, _ = s.do(t, "POST", "/checkout/complete", nil)
	if resp.StatusCode != fiber.StatusConflict {
		t.Errorf("Expected 409 completing twice, got %d", resp.StatusCode)
	}
}

func priceOf(t *testing.T, s *testServer, id int) int64 {
	t.Helper()
	_, body := s.do(t, "GET", "/laptops/"+strconv.Itoa(id), nil)
	price, ok := body["price"].(string)
	if !ok {
		t.Fatalf("Laptop %d has no price: %v", id, body)
	}
	return cart.ParsePrice(price)
}

func TestForgedAdminTokenRejected(t *testing.T) {
	cfg := config.FromEnv(func(string) string { return "" })
	s := newServerWith(t, serverOptions{secret: cfg.JWTSecret})

	forged, _ := utils.NewJWT("laptopshop-secret-key", time.Hour).Generate("admin", utils.RoleAdmin, "", 0)
	s.token = forged
	resp, _ := s.do(t, "POST", "/laptops", map[string]string{"name": "X", "brand": "Y", "price": "1"})
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 for a token signed with a guessed secret, got %d", resp.StatusCode)
	}
}

func TestReadsDoNotCreateSessions(t *testing.T) {
	s := newServer(t)

	for i := 0; i < 50; i++ {
		req := httptest.NewRequest("GET", "/cart", nil)
		if _, err := s.app.Test(req, -1); err != nil {
			t.Fatalf("Request failed: %v", err)
		}
	}
	for _, path := range []string{"/cart", "/wishlist", "/wishlist/items/1", "/checkout"} {
		resp, _ := s.do(t, "GET", path, nil)
		if resp.StatusCode != fiber.StatusOK {
			t.Errorf("Expected 200 from %s, got %d", path, resp.StatusCode)
		}
	}
	if n := s.h.Sessions.Len(); n != 0 {
		t.Fatalf("Expected no sessions from reads, got %d", n)
	}

	s.do(t, "POST", "/cart/items", map[string]int{"laptop_id": 1})
	if n := s.h.Sessions.Len(); n != 1 {
		t.Errorf("Expected one session after a write, got %d", n)
	}
}

func TestMoveOutOfStockWishlistItem(t *testing.T) {
	s := newServer(t)
	s.signInAdmin(t)

	if resp, _ := s.do(t, "POST", "/wishlist/items", map[string]int{"laptop_id": 1}); resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	if resp, _ := s.do(t, "PUT", "/laptops/1", map[string]interface{}{"in_stock": false}); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200 on update, got %d", resp.StatusCode)
	}

	resp, body := s.do(t, "POST", "/wishlist/items/1/cart", nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected 400 moving an out-of-stock laptop, got %d", resp.StatusCode)
	}
	if body["error"] != "Laptop is out of stock" {
		t.Errorf("Unexpected error %v", body["error"])
	}
	_, body = s.do(t, "GET", "/cart", nil)
	if body["count"] != float64(0) {
		t.Errorf("Expected empty cart, got %v", body["count"])
	}
}

func TestPaymentTimeout(t *testing.T) {
	s := newServerWith(t, serverOptions{
		processor:      &checkout.SimulatedProcessor{Delay: time.Minute},
		paymentTimeout: 20 * time.Millisecond,
	})
	s.do(t, "POST", "/cart/items", map[string]int{"laptop_id": 1})
	s.do(t, "POST", "/checkout", nil)
	s.do(t, "POST", "/checkout/details", map[string]string{
		"firstName": "Ann", "lastName": "Banda", "email": "a@b.com",
		"phone": "0977000000", "address": "Plot 1",
	})

	resp, _ := s.do(t, "POST", "/checkout/payment", map[string]string{
		"method": "mobile", "mobileProvider": "mtn", "mobileNumber": "0966000000",
	})
	if resp.StatusCode != fiber.StatusRequestTimeout {
		t.Errorf("Expected 408, got %d", resp.StatusCode)
	}
	_, body := s.do(t, "GET", "/checkout", nil)
	if body["state"] != "payment_failed" {
		t.Errorf("Expected payment_failed, got %v", body["state"])
	}
}

func TestAccountRoutes(t *testing.T) {
	s := newServer(t)
	s.signInCustomer(t)

	resp, _ := s.do(t, "POST", "/account/wishlist/2", nil)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	resp, _ = s.do(t, "POST", "/account/wishlist/2", nil)
	if resp.StatusCode != fiber.StatusCreated {
		t.Errorf("Expected duplicate add to be accepted, got %d", resp.StatusCode)
	}
	resp, _ = s.do(t, "POST", "/account/wishlist/99999", nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected 404 for unknown laptop, got %d", resp.StatusCode)
	}
	if saved := s.list(t, "/account/wishlist"); len(saved) != 1 {
		t.Errorf("Expected one saved laptop, got %v", saved)
	}

	resp, _ = s.do(t, "DELETE", "/account/wishlist/2", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected 200 on remove, got %d", resp.StatusCode)
	}
	resp, _ = s.do(t, "DELETE", "/account/wishlist/2", nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected 404 on second remove, got %d", resp.StatusCode)
	}

	s.do(t, "POST", "/cart/items", map[string]int{"laptop_id": 1})
	s.do(t, "POST", "/checkout", nil)
	_, body := s.do(t, "GET", "/checkout", nil)
	if body["details"].(map[string]interface{})["email"] != "ann@example.com" {
		t.Errorf("Expected details prefilled from the signed-in user, got %v", body["details"])
	}
	s.do(t, "POST", "/checkout/details", map[string]string{
		"firstName": "Ann", "lastName": "Banda", "email": "ann@example.com",
		"phone": "0977000000", "address": "Plot 1",
	})
	s.do(t, "POST", "/checkout/payment", map[string]string{
		"method": "card", "cardNumber": "4111", "expiryDate": "12/27", "cvv": "123", "cardName": "ANN BANDA",
	})
	if resp, _ := s.do(t, "POST", "/checkout/complete", nil); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected checkout completed, got %d", resp.StatusCode)
	}

	placed := s.list(t, "/account/orders")
	if len(placed) != 1 {
		t.Fatalf("Expected one order, got %v", placed)
	}
	order := placed[0].(map[string]interface{})
	if items, _ := order["items"].([]interface{}); len(items) != 1 || order["payment_method"] != "card" {
		t.Errorf("Unexpected order %v", order)
	}

	customer := s.token
	s.signInAdmin(t)
	resp, _ = s.do(t, "GET", "/account/orders", nil)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("Expected 403 for admin token, got %d", resp.StatusCode)
	}

	s.token = customer
	s.do(t, "POST", "/auth/signout", nil)
	resp, _ = s.do(t, "GET", "/account/orders", nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 after sign-out, got %d", resp.StatusCode)
	}
	resp, _ = s.do(t, "GET", "/account/wishlist", nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 after sign-out, got %d", resp.StatusCode)
	}
}
