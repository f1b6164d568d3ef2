// Command shopctl is the terminal storefront: each subcommand is a view of
// the original single-page client. Every view entry passes through the
// route guard, and all requests share one interception pipeline.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/minimall/storefront-client/internal/api"
	"github.com/minimall/storefront-client/internal/core/domain"
	"github.com/minimall/storefront-client/internal/guard"
	"github.com/minimall/storefront-client/internal/notify"
	"github.com/minimall/storefront-client/internal/pkg/config"
	"github.com/minimall/storefront-client/internal/session"
	"github.com/minimall/storefront-client/internal/storage"
	"github.com/minimall/storefront-client/internal/transport"
	"github.com/minimall/storefront-client/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	ctx := context.Background()
	app, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}

	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// app is the composition root: storage, session, pipeline, guard and the
// typed API modules wired by explicit injection.
type app struct {
	session  *session.Store
	guard    *guard.Guard
	nav      *terminalNavigator
	orders   *api.Orders
	merchant *api.Merchant
	catalog  *api.Catalog
	log      zerolog.Logger
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	st, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	notifier := notify.NewLog(log)
	sess := session.New(ctx, st, notifier, log)
	nav := &terminalNavigator{log: log}

	client, err := transport.New(transport.Config{
		BaseURL:  cfg.BaseURL(),
		Timeout:  cfg.HTTPTimeout,
		Tokens:   sess,
		Shop:     storage.NewShopContext(st),
		Notifier: notifier,
		Log:      log,
		// The pipeline never imports the navigation layer; forced logout
		// flows through this subscription.
		OnSessionInvalid: func(ctx context.Context) {
			sess.Invalidate(ctx)
			nav.Push(guard.LoginPath)
		},
	})
	if err != nil {
		return nil, err
	}
	sess.UseClient(client)

	return &app{
		session:  sess,
		guard:    guard.New(sess, nil, log),
		nav:      nav,
		orders:   api.NewOrders(client),
		merchant: api.NewMerchant(client, st),
		catalog:  api.NewCatalog(client),
		log:      log,
	}, nil
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case "redis":
		return storage.NewRedis(ctx, storage.RedisConfig{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	default:
		return storage.NewFile(cfg.Storage.Path)
	}
}

// enter runs the navigation check for a view. A denied navigation redirects
// and reports false; the caller renders nothing.
func (a *app) enter(path string) bool {
	d := a.guard.Check(path)
	if !d.Allow {
		a.nav.Push(d.RedirectTo)
		return false
	}
	return true
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		user := fs.String("u", "", "username")
		pass := fs.String("p", "", "password")
		_ = fs.Parse(args)
		id, err := a.session.Login(ctx, domain.Credentials{Username: *user, Password: *pass})
		if err != nil {
			return err
		}
		fmt.Printf("welcome %s (%s)\n", id.Username, id.Role)
		return nil

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		user := fs.String("u", "", "username")
		pass := fs.String("p", "", "password")
		_ = fs.Parse(args)
		return a.session.Register(ctx, domain.RegisterPayload{Username: *user, Password: *pass})

	case "register-email":
		fs := flag.NewFlagSet("register-email", flag.ExitOnError)
		email := fs.String("e", "", "email")
		user := fs.String("u", "", "username")
		pass := fs.String("p", "", "password")
		_ = fs.Parse(args)
		return a.session.RegisterByEmail(ctx, domain.EmailRegisterPayload{Email: *email, Username: *user, Password: *pass})

	case "logout":
		a.session.Logout(ctx)
		return nil

	case "products":
		if !a.enter("/home") {
			return nil
		}
		page, err := a.catalog.Products(ctx, 1, 20)
		if err != nil {
			return err
		}
		return render(page)

	case "cart":
		if !a.enter("/cart") {
			return nil
		}
		items, err := a.catalog.Cart(ctx)
		if err != nil {
			return err
		}
		return render(items)

	case "orders":
		if !a.enter("/order/list") {
			return nil
		}
		fs := flag.NewFlagSet("orders", flag.ExitOnError)
		pageNum := fs.Int("page", 1, "page number")
		pageSize := fs.Int("size", 10, "page size")
		status := fs.Int("status", -1, "status filter (-1 for all)")
		_ = fs.Parse(args)
		page, err := a.orders.MyList(ctx, api.OrderQuery{PageNum: *pageNum, PageSize: *pageSize, Status: *status})
		if err != nil {
			return err
		}
		return render(page)

	case "pay", "cancel", "receive", "comment":
		if !a.enter("/order/list") {
			return nil
		}
		if len(args) < 1 {
			return fmt.Errorf("usage: shopctl %s <order-sn>", cmd)
		}
		return a.orderAction(ctx, cmd, args[0])

	case "refund":
		if !a.enter("/order/list") {
			return nil
		}
		fs := flag.NewFlagSet("refund", flag.ExitOnError)
		sn := fs.String("sn", "", "order number")
		reason := fs.String("reason", "", "refund reason")
		_ = fs.Parse(args)
		msg, err := a.orders.ApplyRefund(ctx, *sn, *reason)
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil

	case "shop-select":
		if !a.enter("/admin/shop") {
			return nil
		}
		if len(args) < 1 {
			return fmt.Errorf("usage: shopctl shop-select <shop-id>")
		}
		return a.merchant.SelectShop(ctx, args[0])

	case "shop-orders":
		if !a.enter("/admin/shop") {
			return nil
		}
		fs := flag.NewFlagSet("shop-orders", flag.ExitOnError)
		pageNum := fs.Int("page", 1, "page number")
		pageSize := fs.Int("size", 10, "page size")
		status := fs.Int("status", -1, "status filter (-1 for all)")
		sn := fs.String("sn", "", "order number filter")
		_ = fs.Parse(args)
		page, err := a.merchant.Orders(ctx, api.MerchantOrderQuery{PageNum: *pageNum, PageSize: *pageSize, Status: *status, OrderSN: *sn})
		if err != nil {
			return err
		}
		return render(page)

	case "ship":
		if !a.enter("/admin/shop") {
			return nil
		}
		if len(args) < 1 {
			return fmt.Errorf("usage: shopctl ship <order-sn>")
		}
		msg, err := a.merchant.Ship(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil

	case "refund-audit":
		if !a.enter("/admin/shop") {
			return nil
		}
		fs := flag.NewFlagSet("refund-audit", flag.ExitOnError)
		sn := fs.String("sn", "", "order number")
		approve := fs.Bool("approve", false, "approve the refund")
		reason := fs.String("reason", "", "audit reason")
		_ = fs.Parse(args)
		msg, err := a.merchant.AuditRefund(ctx, *sn, *approve, *reason)
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil

	case "logo-upload":
		if !a.enter("/admin/shop") {
			return nil
		}
		if len(args) < 1 {
			return fmt.Errorf("usage: shopctl logo-upload <file>")
		}
		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		url, err := a.merchant.UploadLogo(ctx, args[0], content)
		if err != nil {
			return err
		}
		fmt.Println(url)
		return nil

	case "whoami":
		if !a.session.Authenticated() {
			fmt.Println("not logged in")
			return nil
		}
		return render(a.session.Identity())

	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) orderAction(ctx context.Context, cmd, sn string) error {
	var (
		msg string
		err error
	)
	switch cmd {
	case "pay":
		msg, err = a.orders.Pay(ctx, sn)
	case "cancel":
		msg, err = a.orders.Cancel(ctx, sn)
	case "receive":
		msg, err = a.orders.Receive(ctx, sn)
	case "comment":
		msg, err = a.orders.FinishComment(ctx, sn)
	}
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

func render(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// terminalNavigator is the CLI stand-in for the router: a redirect just
// tells the user where they ended up.
type terminalNavigator struct {
	log zerolog.Logger
}

func (n *terminalNavigator) Push(path string) {
	n.log.Info().Str("path", path).Msg("redirected")
	fmt.Printf("-> %s\n", path)
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: shopctl <command> [flags]

session:
  login -u <user> -p <pass>     authenticate
  register -u <user> -p <pass>  create an account
  register-email -e <email> -u <user> -p <pass>
  logout                        clear session and local storage
  whoami                        show current identity

storefront:
  products                      browse the catalog
  cart                          show the cart
  orders [-page -size -status]  my orders
  pay|cancel|receive|comment <order-sn>
  refund -sn <order-sn> -reason <text>

merchant back office:
  shop-select <shop-id>         set the working shop context
  shop-orders [-page -size -status -sn]
  ship <order-sn>
  refund-audit -sn <order-sn> [-approve] [-reason <text>]
  logo-upload <file>`)
}
