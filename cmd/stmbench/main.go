// stmcore benchmark driver
// Runs a concurrent transfer workload over transactional variables
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nainya/stmcore/internal/logger"
	"github.com/nainya/stmcore/internal/metrics"
	"github.com/nainya/stmcore/pkg/stm"
)

var (
	workers     = flag.Int("workers", 8, "Concurrent worker goroutines")
	accounts    = flag.Int("accounts", 64, "Transactional accounts")
	ops         = flag.Int("ops", 100000, "Transfers per worker")
	metricsAddr = flag.String("metrics", ":9090", "Prometheus metrics listen address (empty to disable)")
	logLevel    = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	pretty      = flag.Bool("pretty", true, "Pretty-print logs")
)

const initialBalance = 1000

func main() {
	flag.Parse()

	logger.InitGlobalLogger(logger.Config{Level: *logLevel, Pretty: *pretty})
	log := logger.GetGlobalLogger()

	m := metrics.NewMetrics()
	prometheus.MustRegister(metrics.NewEngineCollector())

	if *metricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				log.Error("metrics server failed").Err(err).Send()
			}
		}()
		log.Info("metrics server listening").Str("addr", *metricsAddr).Send()
	}

	// Interrupt aborts the run but still prints the final tallies.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	stop := make(chan struct{})
	go func() {
		<-sigChan
		log.Warn("interrupted, stopping workers").Send()
		close(stop)
	}()

	vars := make([]*stm.Var, *accounts)
	for i := range vars {
		vars[i] = stm.NewVar(initialBalance)
	}

	log.LogRunStart(*workers, *accounts, *ops)
	start := time.Now()

	var wg sync.WaitGroup
	for w := 0; w < *workers; w++ {
		wg.Add(1)
		m.WorkersBusy.Inc()
		go func(seed int64) {
			defer wg.Done()
			defer m.WorkersBusy.Dec()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < *ops; i++ {
				select {
				case <-stop:
					return
				default:
				}
				transfer(m, vars, rng)
			}
		}(int64(w) + 1)
	}
	wg.Wait()

	elapsed := time.Since(start)
	s := stm.Snapshot()
	log.LogRunDone(elapsed, s.Commits, s.LockConflicts+s.ValidationConflicts)

	total := 0
	stm.Atomically(func(tx *stm.Tx) {
		total = 0
		for _, v := range vars {
			total += tx.Get(v).(int)
		}
	})
	want := *accounts * initialBalance
	if total != want {
		log.Fatal("balance invariant violated").
			Int("total", total).
			Int("want", want).
			Send()
	}
	log.Info("balance invariant holds").Int("total", total).Send()

	fmt.Printf("committed %d transactions in %s (%.0f tx/s), %d lock conflicts, %d validation conflicts\n",
		s.Commits, elapsed, float64(s.Commits)/elapsed.Seconds(),
		s.LockConflicts, s.ValidationConflicts)
}

// transfer moves a random amount between two random accounts, skipping the
// move when the source cannot cover it.
func transfer(m *metrics.Metrics, vars []*stm.Var, rng *rand.Rand) {
	from := vars[rng.Intn(len(vars))]
	to := vars[rng.Intn(len(vars))]
	if from == to {
		return
	}
	amount := rng.Intn(10) + 1

	m.TxInFlight.Inc()
	start := time.Now()
	stm.Atomically(stm.OrElse(
		func(tx *stm.Tx) {
			balance := tx.Get(from).(int)
			tx.Check(balance >= amount)
			tx.Set(from, balance-amount)
			tx.Set(to, tx.Get(to).(int)+amount)
		},
		func(tx *stm.Tx) {
			// Underfunded source; leave both accounts alone.
		},
	))
	m.ObserveTx("transfer", time.Since(start))
	m.TxInFlight.Dec()
}
