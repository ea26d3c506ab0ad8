// Loadtest drives repeated acquire/save cycles against one aggregate and
// reports throughput. The snapshot/cache backend is selected via env:
//
//	BACKEND=memory|nats|redis  kv store backing snapshots and cache
//	N=50000                    number of write scopes
//	B=1000                     progress batch size
//	SNAPSHOT=1                 snapshot every 100 versions
//	CACHE=1                    cache aggregates on read
//
// Run nats:  docker run --net=host nats:latest -js
// Run redis: docker run --net=host redis:7-alpine
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	natsadapter "github.com/codewandler/esrepo-go/adapters/nats"
	redisadapter "github.com/codewandler/esrepo-go/adapters/redis"
	"github.com/codewandler/esrepo-go/core/es"
	"github.com/codewandler/esrepo-go/ports/kv"
)

// === Config ===

var (
	logLevel    = slog.LevelInfo
	N           = getEnvInt("N", 50_000)
	batchSize   = getEnvInt("B", 1_000)
	backendType = getEnv("BACKEND", "memory")
	useSnapshot = getEnvBool("SNAPSHOT", true)
	useCache    = getEnvBool("CACHE", true)
)

func getEnvBool(key string, fallback bool) bool {
	v := getEnv(key, strconv.FormatBool(fallback))
	return v == "1" || strings.ToLower(v) == "true"
}

func getEnv(key, fallback string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, fmt.Sprintf("%d", fallback)))
	if err != nil {
		return fallback
	}
	return v
}

// === Domain ===

type User struct {
	es.BaseAggregate
	Email      string `json:"email"`
	NumChanges int    `json:"num_changes"`
}

type EmailChanged struct {
	Email string `json:"email"`
}

func (u *User) GetAggType() string { return "user" }
func (u *User) Register(r es.Registrar) {
	es.RegisterEvents(r, es.Event[EmailChanged]())
}
func (u *User) Apply(event any) error {
	switch e := event.(type) {
	case *EmailChanged:
		u.Email = e.Email
		u.NumChanges++
		return nil
	}
	return fmt.Errorf("unknown event: %T", event)
}

func (u *User) ChangeEmail(email string) error {
	return es.RaiseAndApply(u, &EmailChanged{Email: email})
}

// === Main ===

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	fmt.Printf(" backend: %s\n", backendType)
	fmt.Printf("snapshot: %t\n", useSnapshot)
	fmt.Printf("   cache: %t\n", useCache)

	store := createKvStore(ctx)

	factory := es.NewFactory[*User]()
	opts := []es.RepositoryOption{
		es.WithSnapshotBackend(es.NewKeyValueSnapshotBackend(store)),
	}
	if useSnapshot {
		opts = append(opts, es.WithSnapshotStrategy(es.SnapshotEvery(100)))
	}
	if useCache {
		opts = append(opts,
			es.WithCacheBackend(es.NewKeyValueCacheBackend(store, factory)),
			es.WithCacheStrategy(es.CacheAlways()),
		)
	}

	repo := es.NewTypedRepository[*User](log, es.NewInMemoryStore(), opts...)

	// === START ===

	log.Info("==================================")
	log.Info("Starting ...")

	var (
		startAt  = time.Now()
		lastTime = time.Now()
		userID   = "user-1"
	)

	for i := 0; i < N; i++ {
		checkErr(repo.Acquire(ctx, userID, func(u *User) error {
			return u.ChangeEmail(fmt.Sprintf("user@host-%d.com", i))
		}))

		if i == 0 {
			continue
		}
		if i%100 == 0 {
			print(".")
		}
		if i%batchSize == 0 {
			mu := getMemUsage()

			n := time.Now()
			took := n.Sub(lastTime)
			fmt.Printf(
				" | %5d events | %6d ms |  %6d events/s | (%d / %d) MiB mem (sys) |\n",
				batchSize, took.Milliseconds(), int(float64(batchSize)/took.Seconds()),
				mu.Alloc/1024/1024, mu.Sys/1024/1024,
			)
			lastTime = n
		}
	}

	var finalVersion es.Version
	checkErr(repo.Acquire(ctx, userID, func(u *User) error {
		finalVersion = u.GetVersion()
		return nil
	}))

	// === stats ===
	println("")
	println("==========================================")

	took := time.Since(startAt)
	runtime.GC()

	fmt.Printf("total runtime: %.3f seconds\n", took.Seconds())
	fmt.Printf("      version: %d\n", finalVersion)
	fmt.Printf("avg. writes/s: %d\n", int(float64(N)/took.Seconds()))
}

func createKvStore(ctx context.Context) kv.Store {
	switch backendType {
	case "nats":
		store, err := natsadapter.NewStore(ctx, natsadapter.StoreConfig{
			Bucket: "loadtest",
		})
		checkErr(err)
		return store
	case "redis":
		store, err := redisadapter.NewStoreDefault()
		checkErr(err)
		return store
	default:
		return kv.NewMemStore()
	}
}

// === stats helpers ===

type MemUsage struct {
	Alloc      uint64 // bytes allocated and not yet freed (heap)
	TotalAlloc uint64 // cumulative bytes allocated
	Sys        uint64 // total bytes obtained from OS
	NumGC      uint32 // gc cycles
}

func getMemUsage() MemUsage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemUsage{
		Alloc:      m.Alloc,
		TotalAlloc: m.TotalAlloc,
		Sys:        m.Sys,
		NumGC:      m.NumGC,
	}
}

func checkErr(err error) {
	if err != nil {
		panic(err)
	}
}
