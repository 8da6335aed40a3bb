package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"storefront-demo/internal/api"
	"storefront-demo/internal/cart"
	"storefront-demo/internal/checkout"
	"storefront-demo/internal/config"
	"storefront-demo/internal/logging"
	"storefront-demo/internal/session"
	"storefront-demo/internal/storage"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log)

	var store storage.Store
	if cfg.Storage.Ephemeral {
		store = storage.NewMemory()
	} else {
		sqliteStore, err := storage.OpenSQLite(cfg.Storage.Path)
		if err != nil {
			logger.Error("open storage", "error", err)
			os.Exit(1)
		}
		store = sqliteStore
	}
	defer store.Close()

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout)

	sess := session.NewManager(client, store, logger)
	sess.Attach(client)

	cartStore := cart.NewStore(store, logger)
	defer cartStore.Close()

	ctx := context.Background()
	sess.Rehydrate(ctx)
	cartStore.Rehydrate(ctx)

	app := &app{
		client:  client,
		cart:    cartStore,
		session: sess,
		in:      bufio.NewReader(os.Stdin),
	}

	fmt.Println("storefront - type 'help' for commands")
	if app.session.IsAuthenticated() {
		fmt.Println("signed in from a previous session")
	}
	app.run(ctx)
}

type app struct {
	client  *api.Client
	cart    *cart.Store
	session *session.Manager
	in      *bufio.Reader

	// phone number handed from signin to verify, plain parameter
	pendingPhone string
	lastLocal    string
}

func (a *app) run(ctx context.Context) {
	for {
		fmt.Print("> ")
		line, err := a.in.ReadString('\n')
		if err != nil {
			return
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "help":
			printHelp()
		case "products":
			a.listProducts(ctx)
		case "product":
			if len(args) != 1 {
				fmt.Println("usage: product <id>")
				continue
			}
			a.showProduct(ctx, args[0])
		case "add":
			if len(args) != 1 {
				fmt.Println("usage: add <id>")
				continue
			}
			a.toggleItem(ctx, args[0])
		case "cart":
			a.showCart()
		case "inc", "dec":
			if len(args) != 1 {
				fmt.Printf("usage: %s <id>\n", cmd)
				continue
			}
			delta := 1
			if cmd == "dec" {
				delta = -1
			}
			a.cart.ChangeQuantity(args[0], delta)
			a.showCart()
		case "remove":
			if len(args) != 1 {
				fmt.Println("usage: remove <id>")
				continue
			}
			a.cart.Remove(args[0])
			a.showCart()
		case "checkout":
			a.checkout(ctx)
		case "signin":
			if len(args) != 1 {
				fmt.Println("usage: signin <10-digit mobile number>")
				continue
			}
			a.signIn(ctx, args[0])
		case "resend":
			if a.lastLocal == "" {
				fmt.Println("no sign-in in progress")
				continue
			}
			a.signIn(ctx, a.lastLocal)
		case "verify":
			if len(args) != 1 {
				fmt.Println("usage: verify <6-digit code>")
				continue
			}
			a.verify(ctx, args[0])
		case "orders":
			a.listOrders(ctx)
		case "order":
			if len(args) != 1 {
				fmt.Println("usage: order <id>")
				continue
			}
			a.showOrder(ctx, args[0])
		case "profile":
			a.showProfile(ctx)
		case "logout":
			a.session.Logout(ctx)
			fmt.Println("signed out")
		case "quit", "exit":
			return
		default:
			fmt.Printf("unknown command %q, try 'help'\n", cmd)
		}
	}
}

func printHelp() {
	fmt.Println(`commands:
  products            list the catalog
  product <id>        show one product
  add <id>            add to cart, or remove if already added
  cart                show cart and pricing
  inc <id> / dec <id> change quantity (never below 1)
  remove <id>         remove a line item
  checkout            place the order
  signin <number>     request an OTP for +880<number>
  resend              resend the OTP (30s cooldown)
  verify <code>       verify the 6-digit OTP
  orders              order history
  order <id>          order details
  profile             show profile
  logout              sign out
  quit                exit`)
}

func (a *app) listProducts(ctx context.Context) {
	products, err := a.client.Products(ctx)
	if err != nil {
		fmt.Println("could not load products:", err)
		return
	}
	for _, p := range products {
		fmt.Printf("  %-4s %-20s %8.2f\n", p.ID, p.Name, p.Price)
	}
}

func (a *app) showProduct(ctx context.Context, id string) {
	p, err := a.client.ProductByID(ctx, id)
	if err != nil {
		fmt.Println("could not load product:", err)
		return
	}
	fmt.Printf("  %s  %s\n  %.2f\n  %s\n", p.ID, p.Name, p.Price, p.Description)
}

func (a *app) toggleItem(ctx context.Context, id string) {
	for _, it := range a.cart.Snapshot().Items {
		if it.ID == id {
			a.cart.AddOrToggle(it.Product)
			fmt.Println("removed from cart:", it.Name)
			return
		}
	}

	p, err := a.client.ProductByID(ctx, id)
	if err != nil {
		fmt.Println("could not load product:", err)
		return
	}
	a.cart.AddOrToggle(*p)
	fmt.Println("added to cart:", p.Name)
}

func (a *app) showCart() {
	snap := a.cart.Snapshot()
	if len(snap.Items) == 0 {
		fmt.Println("cart is empty")
		return
	}

	for _, it := range snap.Items {
		fmt.Printf("  %-4s %-20s x%-3d %8.2f\n", it.ID, it.Name, it.Quantity, it.Price*float64(it.Quantity))
	}
	fmt.Printf("  subtotal: %.2f  delivery: %.2f  discount: %.2f  total: %.2f\n",
		snap.SubTotal, snap.DeliveryCharge, snap.Discount, snap.Total)
}

func (a *app) prompt(label string) string {
	fmt.Print(label)
	line, err := a.in.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func (a *app) checkout(ctx context.Context) {
	details := checkout.Details{
		Name:          a.prompt("name: "),
		Address:       a.prompt("address: "),
		MobileNumber:  a.prompt("mobile number: "),
		PaymentMethod: a.prompt("payment method [card/cod]: "),
	}

	err := checkout.PlaceOrder(ctx, a.client, a.cart, details)
	if err != nil {
		// The cart is untouched; the user can fix the problem and retry.
		fmt.Println("order failed:", err)
		return
	}
	fmt.Println("order placed successfully")
}

func (a *app) signIn(ctx context.Context, local string) {
	phone, err := a.session.RequestOTP(ctx, local)
	if err != nil {
		fmt.Println("could not send otp:", err)
		return
	}
	a.pendingPhone = phone
	a.lastLocal = local
	fmt.Println("a 6-digit code has been sent to", phone)
}

func (a *app) verify(ctx context.Context, code string) {
	if a.pendingPhone == "" {
		fmt.Println("sign in first: signin <number>")
		return
	}

	if err := a.session.VerifyOTP(ctx, a.pendingPhone, code); err != nil {
		fmt.Println("verification failed:", err)
		return
	}
	a.pendingPhone = ""
	a.lastLocal = ""
	fmt.Println("signed in")
}

func (a *app) listOrders(ctx context.Context) {
	orders, err := a.client.OrderHistory(ctx)
	if err != nil {
		fmt.Println("could not load order history:", err)
		return
	}
	if len(orders) == 0 {
		fmt.Println("no orders yet")
		return
	}
	for _, o := range orders {
		fmt.Printf("  %-38s %-26s %-10s %s\n", o.OrderID, o.OrderDate, o.OrderStatus, o.OrderTotal)
	}
}

func (a *app) showOrder(ctx context.Context, id string) {
	detail, err := a.client.OrderDetail(ctx, id)
	if err != nil {
		fmt.Println("could not load order:", err)
		return
	}

	fmt.Printf("  order %s (%s)\n  deliver to %s, %s\n  payment: %s\n",
		detail.OrderID, detail.OrderDate, detail.Name, detail.Address, detail.PaymentMethod)
	for _, it := range detail.Items {
		fmt.Printf("    %-4s x%-3d %8.2f\n", it.ProductID, it.Quantity, it.Price*float64(it.Quantity))
	}
	fmt.Printf("  total: %.2f\n", detail.Total)
}

func (a *app) showProfile(ctx context.Context) {
	profile, err := a.client.GetProfile(ctx)
	if err != nil {
		fmt.Println("could not load profile:", err)
		return
	}

	fmt.Printf("  %s %s\n  %s / %s\n", profile.FirstName, profile.LastName, profile.Email, profile.Phone)
	for _, addr := range profile.DeliveryAddresses {
		marker := " "
		if addr.IsDefault {
			marker = "*"
		}
		fmt.Printf("  %s %s: %s, %s %s, %s\n", marker, addr.Label, addr.Street, addr.City, addr.ZipCode, addr.Country)
	}
}
