// Package main 提供 quicpeer 命令行入口
//
// 监听并回显：
//
//	quicpeer -listen /ip4/0.0.0.0/udp/4001/quic
//
// 拨号并发送一条消息：
//
//	quicpeer -dial /ip4/1.2.3.4/udp/4001/quic -msg hello
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	dep2p "github.com/dep2p/go-dep2p-quic"
	"github.com/dep2p/go-dep2p-quic/config"
	pkgif "github.com/dep2p/go-dep2p-quic/pkg/interfaces"
	"github.com/dep2p/go-dep2p-quic/pkg/lib/log"
)

var logger = log.Logger("dep2p/cmd")

var (
	configFile   = flag.String("config", "", "配置文件路径")
	identityFile = flag.String("identity", "", "身份密钥文件路径")
	listenAddr   = flag.String("listen", "", "监听地址，如 /ip4/0.0.0.0/udp/4001/quic")
	dialAddr     = flag.String("dial", "", "拨号地址")
	message      = flag.String("msg", "hello", "拨号后发送的消息")
	timeout      = flag.Duration("timeout", 10*time.Second, "拨号与回显超时")
	metricsAddr  = flag.String("metrics", "", "Prometheus 指标 HTTP 地址，如 127.0.0.1:9100")
	logLevel     = flag.String("log-level", "", "日志级别 (debug/info/warn/error)")
	showVersion  = flag.Bool("version", false, "显示版本信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Println(dep2p.VersionInfo())
		return nil
	}
	if (*listenAddr == "") == (*dialAddr == "") {
		flag.Usage()
		return errors.New("需要且只能指定 -listen 或 -dial 之一")
	}

	cfg, err := buildConfig()
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	node, err := dep2p.New(ctx, dep2p.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}
	defer func() { _ = node.Close() }()
	fmt.Printf("节点 ID: %s\n", node.ID())

	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr)
	}

	if *listenAddr != "" {
		return listen(ctx, node)
	}
	return dial(ctx, node)
}

// buildConfig 配置优先级：命令行 > 环境变量 > 配置文件 > 默认值
func buildConfig() (*config.Config, error) {
	cfg := config.NewConfig()
	if *configFile != "" {
		loaded, err := config.LoadFile(*configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if v := os.Getenv("DEP2P_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("DEP2P_IDENTITY_FILE"); v != "" {
		cfg.Identity.KeyFile = v
	}

	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *identityFile != "" {
		cfg.Identity.KeyFile = *identityFile
	}
	return cfg, cfg.Validate()
}

func listen(ctx context.Context, node *dep2p.Node) error {
	addr, err := node.Listen(*listenAddr, func(c pkgif.CapableConn) {
		logger.Info("入站连接", "peer", c.RemotePeer().ShortString(), "raddr", c.RemoteMultiaddr())
		go serveEcho(c)
	})
	if err != nil {
		return err
	}
	fmt.Printf("监听地址: %s\n", addr)
	fmt.Println("按 Ctrl+C 退出")
	<-ctx.Done()
	fmt.Println("\n正在关闭节点...")
	return nil
}

func serveEcho(c pkgif.CapableConn) {
	defer func() { _ = c.Close() }()
	for {
		s, err := c.AcceptStream(context.Background())
		if err != nil {
			return
		}
		go func() {
			defer func() { _ = s.Close() }()
			n, err := io.Copy(s, s)
			logger.Debug("回显完成", "bytes", n, "error", err)
		}()
	}
}

func dial(ctx context.Context, node *dep2p.Node) error {
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	conn, err := node.Dial(ctx, *dialAddr)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()
	fmt.Printf("已连接: %s (%s -> %s)\n", conn.RemotePeer(), conn.LocalMultiaddr(), conn.RemoteMultiaddr())

	s, err := conn.OpenStream(ctx)
	if err != nil {
		return fmt.Errorf("打开流失败: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = s.SetDeadline(deadline)
	}
	if _, err := s.Write([]byte(*message)); err != nil {
		return err
	}
	if err := s.CloseWrite(); err != nil {
		return err
	}
	reply, err := io.ReadAll(s)
	if err != nil {
		return fmt.Errorf("读取回显失败: %w", err)
	}
	fmt.Printf("回显: %s\n", reply)
	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	logger.Info("指标服务", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warn("指标服务退出", "error", err)
	}
}
