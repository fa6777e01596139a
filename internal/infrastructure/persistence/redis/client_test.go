package redis

import (
	"net"
	"strconv"

	"github.com/xiebiao/bookinventory/internal/infrastructure/config"
)

func testConfig(addr string) *config.Config {
	host, port, _ := net.SplitHostPort(addr)
	p, _ := strconv.Atoi(port)
	return &config.Config{Redis: config.RedisConfig{Host: host, Port: p}}
}
