package preflight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"walrusup/internal/deps"
	"walrusup/internal/fileutil"
	"walrusup/internal/metadata"
)

// CheckWalrusBinary verifies the Walrus CLI resolves on PATH or at its
// configured location.
func CheckWalrusBinary(binary string) Result {
	const name = "Walrus CLI"
	bin, err := deps.Resolve(binary)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: bin.Path}
}

// CheckReadableFile verifies that path is a regular file the process can read.
func CheckReadableFile(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	if err := fileutil.ReadableFile(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckMetadata verifies the metadata source parses and reports its size.
func CheckMetadata(path string) Result {
	const name = "Metadata"
	src, err := metadata.Load(path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	keys := src.Keys()
	total := 0
	for _, key := range keys {
		total += len(src.Records(key))
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d tiers, %d records)", path, len(keys), total)}
}

// CheckReadableDirectory verifies that the directory exists and can be listed.
func CheckReadableDirectory(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "read ok")
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result string `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CheckFullNode asks the Sui full node for its chain identifier. It uses a
// 5-second timeout and a single attempt.
func CheckFullNode(ctx context.Context, url string) Result {
	const name = "Sui full node"

	url = strings.TrimSpace(url)
	if url == "" {
		return Result{Name: name, Detail: "missing url"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: "sui_getChainIdentifier", Params: []any{}})
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("encode request: %v", err)}
	}
	req, err := http.NewRequestWithContext(checkCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("request failed (%v)", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("unreachable (%v)", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Name: name, Detail: fmt.Sprintf("unexpected status (%d)", resp.StatusCode)}
	}
	var decoded rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("invalid response (%v)", err)}
	}
	if decoded.Error != nil {
		return Result{Name: name, Detail: fmt.Sprintf("rpc error %d: %s", decoded.Error.Code, decoded.Error.Message)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("chain %s", decoded.Result)}
}
