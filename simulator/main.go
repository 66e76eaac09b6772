// Command simulator feeds the telemetry stream endpoint with synthetic
// engine readings and prints the analytics the twin sends back.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	cfg := parseFlags()
	if err := (&cfg).Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	if err := run(ctx, cfg); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("simulator: %v", err)
	}
}

func parseFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.URL, "url", "ws://localhost:8000/ws/engine", "stream endpoint URL")
	flag.DurationVar(&cfg.Interval, "interval", time.Second, "sample interval")
	flag.DurationVar(&cfg.Duration, "duration", 0, "stop after this long (0 = run until interrupted)")
	flag.Float64Var(&cfg.BaseEnergy, "energy", 500, "base energy kW")
	flag.Float64Var(&cfg.BaseTemp, "temp", 300, "base temperature C")
	flag.Float64Var(&cfg.Swing, "swing", 40, "sinusoid amplitude")
	flag.Float64Var(&cfg.Noise, "noise", 5, "gaussian noise stddev")
	flag.Float64Var(&cfg.OverheatPct, "overheat-pct", 0.01, "probability per sample of an overheat excursion")
	flag.Float64Var(&cfg.OverheatBump, "overheat-bump", 220, "temperature added during an excursion")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "enable verbose logging")
	flag.Parse()
	return cfg
}

func run(ctx context.Context, cfg Config) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, cfg.URL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	go func() {
		<-ctx.Done()
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	}()

	model := NewEngineModel(cfg)
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		energy, temp := model.Step()
		msg := map[string]float64{"energy": energy, "temperature": temp}
		if err := conn.WriteJSON(msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		var res struct {
			Energy            float64 `json:"energy"`
			Temperature       float64 `json:"temperature"`
			AvgTemp           float64 `json:"avg_temp"`
			PredictedOverheat float64 `json:"predicted_overheat"`
			Alert             bool    `json:"alert"`
		}
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := json.Unmarshal(payload, &res); err != nil {
			return err
		}
		if res.Alert {
			log.Printf("ALERT predicted %.1f C (avg %.1f C)", res.PredictedOverheat, res.AvgTemp)
		} else {
			log.Printf("sent %.1f C / %.1f kW, avg %.1f C", temp, energy, res.AvgTemp)
		}
	}
}
