package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"app/internal/binance"
	"app/internal/config"
	"app/internal/logger"
	"app/internal/model"
	"app/internal/orders"

	"github.com/adshao/go-binance/v2/futures"
)

// ANSI-цвета для вывода оператору.
const (
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorReset  = "\033[0m"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: order <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  order   place an order on Binance Futures Testnet")
	fmt.Fprintln(os.Stderr, "  test    test API connection and credentials")
	fmt.Fprintln(os.Stderr, "  price   get current market price for a symbol")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fatalf("Ошибка конфигурации: %v", err)
	}

	log, err := logger.NewLogger(cfg.LoggerLevel, cfg.LogDir)
	if err != nil {
		fatalf("Ошибка создания логгера: %v", err)
	}
	defer log.Sync()

	switch os.Args[1] {
	case "order":
		runOrder(cfg, log, os.Args[2:])
	case "test":
		runTest(cfg, log)
	case "price":
		runPrice(cfg, log, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, colorRed+format+colorReset+"\n", args...)
	os.Exit(1)
}

// requireCredentials завершает процесс с подсказкой, если ключи не заданы.
func requireCredentials(cfg config.Config) {
	if err := cfg.RequireCredentials(); err != nil {
		fmt.Println(colorRed + "Error: API credentials not found in environment variables." + colorReset)
		fmt.Println(colorYellow + "Please set the following environment variables:")
		fmt.Println("  - BINANCE_TESTNET_API_KEY")
		fmt.Println("  - BINANCE_TESTNET_API_SECRET")
		fmt.Println("\nExample:" + colorReset)
		fmt.Println("  export BINANCE_TESTNET_API_KEY='your_api_key'")
		fmt.Println("  export BINANCE_TESTNET_API_SECRET='your_api_secret'")
		os.Exit(1)
	}
}

func newManager(cfg config.Config, log logger.Logger) (*binance.BinanceManager, *orders.OrderManager) {
	bm := binance.NewBinanceManager(cfg.BinanceUrl, cfg.BinanceApiKey, cfg.BinanceApiSecret, log)
	return bm, orders.NewOrderManager(bm, log)
}

func runOrder(cfg config.Config, log logger.Logger, args []string) {
	fs := flag.NewFlagSet("order", flag.ExitOnError)
	symbol := fs.String("symbol", "", "trading pair symbol (e.g. BTCUSDT)")
	side := fs.String("side", "", "order side: BUY or SELL")
	orderType := fs.String("type", "", "order type: MARKET or LIMIT")
	quantity := fs.String("quantity", "", "order quantity")
	price := fs.String("price", "", "order price (required for LIMIT orders)")
	fs.Parse(args)

	requireCredentials(cfg)
	ctx := context.Background()

	fmt.Println(colorCyan + "Initializing Binance Testnet client..." + colorReset)
	bm, om := newManager(cfg, log)

	if !bm.TestConnection(ctx) {
		fmt.Println(colorRed + "Failed to connect to Binance Testnet API.")
		fmt.Println("Please check your API credentials and network connection." + colorReset)
		os.Exit(1)
	}
	fmt.Print(colorGreen + "✓ Connected to Binance Futures Testnet" + colorReset + "\n\n")

	fmt.Println(colorCyan + "Order Request Summary:" + colorReset)
	fmt.Printf("  Symbol:      %s\n", strings.ToUpper(*symbol))
	fmt.Printf("  Side:        %s\n", strings.ToUpper(*side))
	fmt.Printf("  Type:        %s\n", strings.ToUpper(*orderType))
	fmt.Printf("  Quantity:    %s\n", *quantity)
	if *price != "" {
		fmt.Printf("  Price:       %s\n", *price)
	}
	fmt.Println()

	// Подтверждение — забота CLI, в конвейер оно не входит.
	if !confirm(colorYellow + "Do you want to proceed with this order?" + colorReset) {
		fmt.Println(colorYellow + "Order cancelled." + colorReset)
		return
	}

	fmt.Print("\n" + colorCyan + "Placing order..." + colorReset + "\n\n")

	result, err := om.PlaceOrder(ctx, model.RawOrder{
		Symbol:   *symbol,
		Side:     *side,
		Type:     *orderType,
		Quantity: *quantity,
		Price:    *price,
	})
	if err != nil {
		log.Error("Ошибка размещения ордера: ", err)
		fatalf("Error: %v", err)
	}

	printOrderSummary(result)
	fmt.Println(colorGreen + "✓ Order placed successfully!" + colorReset)
	fmt.Print(colorCyan + "Check the logs directory for detailed information." + colorReset + "\n\n")
}

func runTest(cfg config.Config, log logger.Logger) {
	requireCredentials(cfg)
	ctx := context.Background()

	fmt.Print(colorCyan + "Testing Binance Testnet connection..." + colorReset + "\n\n")
	bm, _ := newManager(cfg, log)

	if !bm.TestConnection(ctx) {
		fmt.Println(colorRed + "✗ API connection failed." + colorReset)
		fmt.Println("Please check your API credentials and network connection.")
		os.Exit(1)
	}

	fmt.Println(colorGreen + "✓ API connection successful!")
	fmt.Print("✓ Your API credentials are valid." + colorReset + "\n\n")

	fmt.Println(colorCyan + "Fetching current BTC price..." + colorReset)
	price, err := bm.GetCurrentPrice(ctx, "BTCUSDT")
	if err != nil {
		log.Error("Ошибка получения цены: ", err)
		return
	}
	fmt.Printf(colorGreen+"✓ Current BTC price: $%s"+colorReset+"\n\n", price.StringFixed(2))
}

func runPrice(cfg config.Config, log logger.Logger, args []string) {
	fs := flag.NewFlagSet("price", flag.ExitOnError)
	symbol := fs.String("symbol", "BTCUSDT", "trading pair symbol")
	fs.Parse(args)

	requireCredentials(cfg)

	bm, _ := newManager(cfg, log)
	upper := strings.ToUpper(*symbol)

	fmt.Printf(colorCyan+"Fetching current price for %s..."+colorReset+"\n\n", upper)
	price, err := bm.GetCurrentPrice(context.Background(), upper)
	if err != nil {
		log.Error("Ошибка получения цены: ", err)
		fatalf("Failed to fetch price for %s", upper)
	}

	fmt.Printf(colorGreen+"Current %s Price: $%s"+colorReset+"\n\n", upper, price.StringFixed(2))
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func printOrderSummary(result *model.OrderResult) {
	line := strings.Repeat("=", 70)
	fmt.Println("\n" + line)
	fmt.Println("ORDER PLACED SUCCESSFULLY")
	fmt.Println(line)
	fmt.Printf("Order ID:        %d\n", result.OrderID)
	fmt.Printf("Symbol:          %s\n", result.Symbol)
	fmt.Printf("Side:            %s\n", result.Side)
	fmt.Printf("Type:            %s\n", result.Type)
	fmt.Printf("Status:          %s\n", result.Status)
	fmt.Printf("Quantity:        %s\n", result.OrigQty)

	if result.Type == string(futures.OrderTypeLimit) {
		fmt.Printf("Price:           %s\n", result.Price)
	}

	fmt.Printf("Executed Qty:    %s\n", result.ExecutedQty)
	if result.AvgPrice != "N/A" && result.AvgPrice != "0" {
		fmt.Printf("Average Price:   %s\n", result.AvgPrice)
	}

	fmt.Println(line)
	fmt.Println()
}
