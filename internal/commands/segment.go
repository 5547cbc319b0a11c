package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rfmkit/rfm/internal/config"
	"github.com/rfmkit/rfm/internal/logging"
	"github.com/rfmkit/rfm/internal/orders"
	"github.com/rfmkit/rfm/internal/rfm"
)

const defaultQuery = "SELECT customer_id, order_id, order_date, margin FROM orders"

type segmentFlags struct {
	configPath string
	today      string
	window     int
	bins       int
	idCol      string
	orderCol   string
	dateCol    string
	valueCol   string
	names      string
	out        string
	dsn        string
	query      string
	logLevel   string
	logFormat  string
}

func newSegmentCommand() *cobra.Command {
	var f segmentFlags

	cmd := &cobra.Command{
		Use:   "segment [orders.csv]",
		Short: "Score customers by recency, frequency and monetary value",
		Long: "Reads an order export (CSV file, stdin, or a MySQL query) and writes one CSV row per\n" +
			"customer with R/F/M values, their bin scores, the score tag and a readable name.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return runSegment(cmd, cfg, f, args)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", config.FileName, "config file; skipped if the default is missing")
	fl.StringVar(&f.today, "today", "", "reference date YYYY-MM-DD (default: current date)")
	fl.IntVar(&f.window, "window", rfm.DefaultWindowDays, "trailing window in days")
	fl.IntVar(&f.bins, "bins", rfm.DefaultBins, "number of quantile bins per dimension")
	fl.StringVar(&f.idCol, "id-col", rfm.DefaultIDColumn, "customer id column")
	fl.StringVar(&f.orderCol, "order-col", rfm.DefaultOrderColumn, "order id column")
	fl.StringVar(&f.dateCol, "date-col", rfm.DefaultDateColumn, "order date column")
	fl.StringVar(&f.valueCol, "value-col", rfm.DefaultValueColumn, "monetary value column")
	fl.StringVar(&f.names, "names", "en", "segment name language (en, ru)")
	fl.StringVarP(&f.out, "out", "o", "", "output CSV file (default: stdout)")
	fl.StringVar(&f.dsn, "dsn", os.Getenv("RFM_DSN"), "MySQL/MariaDB DSN to read orders from instead of CSV")
	fl.StringVar(&f.query, "query", defaultQuery, "query used with --dsn")
	fl.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fl.StringVar(&f.logFormat, "log-format", "", "log format (console, json)")

	return cmd
}

// loadConfig reads the config file and applies explicitly set flags on top.
func loadConfig(cmd *cobra.Command, f segmentFlags) (*config.Config, error) {
	fl := cmd.Flags()

	cfg, err := config.Load(f.configPath)
	if errors.Is(err, fs.ErrNotExist) && !fl.Changed("config") {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return nil, err
	}

	if fl.Changed("today") {
		cfg.Window.Today = f.today
	}
	if fl.Changed("window") {
		cfg.Window.Days = f.window
	}
	if fl.Changed("bins") {
		cfg.Binning.Bins = f.bins
	}
	if fl.Changed("id-col") {
		cfg.Columns.ID = f.idCol
	}
	if fl.Changed("order-col") {
		cfg.Columns.Order = f.orderCol
	}
	if fl.Changed("date-col") {
		cfg.Columns.Date = f.dateCol
	}
	if fl.Changed("value-col") {
		cfg.Columns.Value = f.valueCol
	}
	if fl.Changed("names") {
		cfg.Names.Language = f.names
	}
	if f.logLevel != "" {
		cfg.Logging.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Logging.Format = f.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSegment(cmd *cobra.Command, cfg *config.Config, f segmentFlags, args []string) error {
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	params, err := cfg.Params()
	if err != nil {
		return err
	}
	seg, err := rfm.New(params, rfm.WithLogger(logger))
	if err != nil {
		return err
	}

	df, source, err := readOrders(cmd.Context(), cmd.InOrStdin(), f, args)
	if err != nil {
		return err
	}
	logger.Debug("orders loaded", zap.String("source", source), zap.Int("rows", df.Nrow()))

	customers, err := seg.Segment(df)
	if err != nil {
		return fmt.Errorf("segmenting %s: %w", source, err)
	}

	w := cmd.OutOrStdout()
	if f.out != "" {
		file, err := os.Create(f.out)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer file.Close()
		w = file
	}

	if err := rfm.WriteCustomers(w, customers, params.IDColumn, params.OutputDateLayout); err != nil {
		return fmt.Errorf("writing segments: %w", err)
	}

	logger.Info("segmentation complete",
		zap.String("source", source),
		zap.Time("today", seg.Today()),
		zap.Int("window_days", params.WindowDays),
		zap.Int("bins", params.Bins),
		zap.Int("customers", len(customers)),
	)
	return nil
}

func readOrders(ctx context.Context, stdin io.Reader, f segmentFlags, args []string) (dataframe.DataFrame, string, error) {
	if f.dsn != "" {
		if ctx == nil {
			ctx = context.Background()
		}
		db, err := orders.Open(f.dsn)
		if err != nil {
			return dataframe.DataFrame{}, "", err
		}
		defer db.Close()

		df, err := orders.Query(ctx, db, f.query)
		return df, "database", err
	}

	if len(args) == 0 || args[0] == "-" {
		df, err := orders.ReadCSV(stdin)
		return df, "stdin", err
	}

	file, err := os.Open(args[0])
	if err != nil {
		return dataframe.DataFrame{}, "", fmt.Errorf("opening orders: %w", err)
	}
	defer file.Close()

	df, err := orders.ReadCSV(file)
	return df, args[0], err
}
