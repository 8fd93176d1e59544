package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/gomodule/redicore/redis"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML connection config")
	keysStartedWith := flag.String("prefix", "", "list keys starting with prefix") // empty lists all keys
	flag.Parse()

	cfg := redis.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = redis.LoadConfig(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	logger, err := redis.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	conn, version, err := redis.DialConfigLogger(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("redis connection error", zap.String("address", cfg.Address), zap.Error(err))
	}
	defer conn.Close()
	logger.Info("connected", zap.String("address", cfg.Address), zap.Stringer("version", version))

	jsonValue := map[string]interface{}{"test1": "val1", "test2": "val2"}
	byteValue, _ := json.Marshal(jsonValue)

	// the value is removed by the server after 10 seconds
	if _, err := redis.Set(ctx, conn, "myKey", byteValue, redis.WithExpireSecond(10)); err != nil {
		logger.Fatal("set failed", zap.Error(err))
	}

	myVal, err := redis.Get(ctx, conn, "myKey")
	if err != nil {
		logger.Fatal("get failed", zap.Error(err))
	}
	if myVal.Valid {
		got := make(map[string]interface{})
		if err := json.Unmarshal([]byte(myVal.Value), &got); err != nil {
			logger.Error("stored value is not JSON", zap.Error(err))
		}
		fmt.Println(got)
	}

	keys, err := redis.NewScanner(conn, &redis.ScanOptions{Match: *keysStartedWith + "*"}).All(ctx)
	if err != nil {
		logger.Fatal("scan failed", zap.Error(err))
	}
	fmt.Println(keys)

	if version.Supports("TOUCH") {
		n, err := redis.Touch(ctx, conn, version, "myKey")
		if err != nil {
			logger.Fatal("touch failed", zap.Error(err))
		}
		fmt.Println("touched", n)
	}
}
