package util

import (
	"fmt"
	"net"
	"os/exec"
	"runtime"
)

// Open 用系统默认程序打开 URL 或文件（浏览器、Excel 等）
// 支持 Windows 7/10/11, macOS, Linux
func Open(target string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		// rundll32 调用 url.dll，Windows 7 上比 cmd /c start 稳定
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	case "darwin":
		cmd = exec.Command("open", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}

	return cmd.Start()
}

// OpenWithFallback 带降级方案的打开方式
// 主要方式失败时尝试备选程序。
func OpenWithFallback(target string) error {
	err := Open(target)
	if err == nil {
		return nil
	}

	switch runtime.GOOS {
	case "windows":
		return exec.Command("explorer", target).Start()
	case "linux":
		for _, prog := range []string{"gio", "sensible-browser", "google-chrome", "firefox"} {
			args := []string{target}
			if prog == "gio" {
				args = []string{"open", target}
			}
			if err := exec.Command(prog, args...).Start(); err == nil {
				return nil
			}
		}
	}

	return err
}

// FindAvailablePort 从 startPort 开始查找可监听的端口，最多尝试 attempts 个
func FindAvailablePort(startPort, attempts int) (int, error) {
	for port := startPort; port < startPort+attempts && port <= 65535; port++ {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			continue
		}
		_ = ln.Close()
		return port, nil
	}
	return 0, fmt.Errorf("no available port in [%d, %d)", startPort, startPort+attempts)
}
