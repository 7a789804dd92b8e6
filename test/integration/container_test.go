//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/CemBlt/dent-admin-app/internal/platform/db"
)

const defaultPostgresImage = "postgres:16-alpine"

// startPostgres launches a disposable Postgres through the docker CLI on a
// port docker chooses. PANEL_TEST_PG_IMAGE overrides the image.
func startPostgres(ctx context.Context) (string, func(), error) {
	image := os.Getenv("PANEL_TEST_PG_IMAGE")
	if image == "" {
		image = defaultPostgresImage
	}
	name := fmt.Sprintf("panel-integration-%d", time.Now().UnixNano())

	out, err := exec.CommandContext(ctx, "docker", "run", "-d", "--rm",
		"--name", name,
		"--label", "dent-admin-app=integration",
		"-p", "127.0.0.1::5432",
		"-e", "POSTGRES_USER=panel",
		"-e", "POSTGRES_PASSWORD=panel",
		"-e", "POSTGRES_DB=paneltest",
		image,
	).CombinedOutput()
	if err != nil {
		return "", nil, fmt.Errorf("docker run %s: %w: %s", image, err, out)
	}
	stop := func() { _ = exec.Command("docker", "stop", name).Run() }

	addr, err := exec.CommandContext(ctx, "docker", "port", name, "5432/tcp").Output()
	if err != nil {
		stop()
		return "", nil, fmt.Errorf("docker port: %w", err)
	}
	hostPort := strings.TrimSpace(strings.SplitN(string(addr), "\n", 2)[0])

	dsn := fmt.Sprintf("postgres://panel:panel@%s/paneltest?sslmode=disable", hostPort)
	if err := awaitPostgres(ctx, dsn, 45*time.Second); err != nil {
		stop()
		return "", nil, err
	}
	return dsn, stop, nil
}

// awaitPostgres polls until the server accepts a pooled connection. The
// entrypoint restarts postgres once after init, so one good ping is not
// enough on its own; two in a row are required.
func awaitPostgres(ctx context.Context, dsn string, within time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, within)
	defer cancel()

	tick := time.NewTicker(400 * time.Millisecond)
	defer tick.Stop()

	good := 0
	var last error
	for {
		pool, err := db.NewPool(ctx, dsn, db.PoolOptions{MaxConns: 1, AppName: "panel-integration"})
		if err == nil {
			pool.Close()
			good++
			if good == 2 {
				return nil
			}
		} else {
			good, last = 0, err
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("postgres not ready after %s: %v", within, last)
		case <-tick.C:
		}
	}
}
