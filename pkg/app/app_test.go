package app

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-economy/pkg/config"
	"github.com/lk2023060901/xdooria-economy/pkg/logger"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

type fakeServer struct {
	name string
	rec  *recorder
	err  error
}

func (s *fakeServer) Start() error {
	s.rec.add("start:" + s.name)
	return s.err
}

func (s *fakeServer) Stop() error {
	s.rec.add("stop:" + s.name)
	return nil
}

func TestShutdownClosesInReverseOrder(t *testing.T) {
	rec := &recorder{}
	a := NewBaseApp(WithLogger(logger.NewNoop()), WithStopTimeout(time.Second))
	InitApp(a, AppComponents{
		Servers: []Server{&fakeServer{name: "web", rec: rec}},
		Closers: []Closer{
			CloserFunc(func() error { rec.add("close:redis"); return nil }),
			CloserFunc(func() error { rec.add("close:postgres"); return nil }),
		},
	})

	require.NoError(t, a.Shutdown())
	assert.Equal(t, []string{"stop:web", "close:postgres", "close:redis"}, rec.events)
	assert.Error(t, a.Context().Err())

	// 第二次调用为空操作
	require.NoError(t, a.Shutdown())
	assert.Len(t, rec.events, 3)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	rec := &recorder{}
	a := NewBaseApp(WithLogger(logger.NewNoop()))
	a.AppendServer(&fakeServer{name: "web", rec: rec})

	done := make(chan error, 1)
	go func() { done <- a.Run() }()

	require.Eventually(t, func() bool {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return len(rec.events) == 1
	}, time.Second, 5*time.Millisecond)

	a.cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.ErrorIs(t, a.Run(), ErrAppAlreadyRunning)
}

func TestRunStartFailure(t *testing.T) {
	rec := &recorder{}
	a := NewBaseApp(WithLogger(logger.NewNoop()))
	a.AppendServer(&fakeServer{name: "web", rec: rec, err: errors.New("bind failed")})

	err := a.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bind failed")
}

type loadTarget struct {
	Web struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"web"`
	Log struct {
		OutputPath string `mapstructure:"output_path"`
		EnableFile bool   `mapstructure:"enable_file"`
	} `mapstructure:"log"`
}

func TestLoadConfigFrom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("web:\n  port: 8080\n"), 0o644))
	t.Setenv("XDOORIA_WEB_PORT", "9191")

	logFile := filepath.Join(dir, "logs", "x.log")
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)

	var cfg loadTarget
	require.NoError(t, LoadConfigFrom(fs, []string{"-c", path, "--log.path", logFile}, &cfg))

	assert.Equal(t, 9191, cfg.Web.Port)
	assert.Equal(t, logFile, cfg.Log.OutputPath)
	assert.True(t, cfg.Log.EnableFile)
	assert.Equal(t, path, GetConfigPath())
	assert.DirExists(t, filepath.Dir(logFile))
}

func TestLoadConfigMissingFile(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	var cfg loadTarget
	err := LoadConfigFrom(fs, []string{"-c", filepath.Join(t.TempDir(), "nope.yaml")}, &cfg)
	assert.ErrorIs(t, err, config.ErrConfigFileNotFound)
}

func TestVersionInfo(t *testing.T) {
	info := GetInfo()
	assert.Equal(t, AppName, info.AppName)
	assert.Contains(t, info.String(), info.GoVersion)
}
