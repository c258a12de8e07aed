package manager

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/dao"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/gacha"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/gameconfig"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/ledger"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/model"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/repository"
	"github.com/lk2023060901/xdooria-economy/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowRepo 统计加载次数，并在加载钱包时阻塞，便于触发并发
type slowRepo struct {
	repository.PlayerRepository
	loads   atomic.Int32
	release chan struct{}

	failNext      atomic.Bool // 下一次钱包写入失败
	failGacha     atomic.Bool
	failCosmetics atomic.Bool
}

var errStoreDown = errors.New("store unavailable")

func (r *slowRepo) LoadWallet(ctx context.Context, playerID int64) (*ledger.Ledger, error) {
	r.loads.Add(1)
	if r.release != nil {
		<-r.release
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.PlayerRepository.LoadWallet(ctx, playerID)
}

func (r *slowRepo) SaveWallet(ctx context.Context, playerID int64, l *ledger.Ledger) error {
	if r.failNext.CompareAndSwap(true, false) {
		return errStoreDown
	}
	return r.PlayerRepository.SaveWallet(ctx, playerID, l)
}

func (r *slowRepo) SaveGacha(ctx context.Context, playerID int64, m *gacha.Manager) error {
	if r.failGacha.Load() {
		return errStoreDown
	}
	return r.PlayerRepository.SaveGacha(ctx, playerID, m)
}

func (r *slowRepo) SaveCosmetics(ctx context.Context, playerID int64, inv *model.CosmeticInventory) error {
	if r.failCosmetics.Load() {
		return errStoreDown
	}
	return r.PlayerRepository.SaveCosmetics(ctx, playerID, inv)
}

func newTestManager(t *testing.T) (*PlayerManager, *slowRepo) {
	t.Helper()
	c, err := gameconfig.Load("../../../../config/gamedata.yaml")
	require.NoError(t, err)

	base := repository.NewPlayerRepository(dao.NewMemoryStore(), gameconfig.NewStaticStore(c), gacha.DefaultRNG(), nil, logger.NewNoop())
	repo := &slowRepo{PlayerRepository: base}
	return NewPlayerManager(logger.NewNoop(), repo), repo
}

func TestGetCachesProfile(t *testing.T) {
	m, repo := newTestManager(t)
	ctx := context.Background()

	p1, err := m.Get(ctx, 1)
	require.NoError(t, err)
	p2, err := m.Get(ctx, 1)
	require.NoError(t, err)

	assert.Same(t, p1, p2)
	assert.Equal(t, int32(1), repo.loads.Load())
	assert.Equal(t, int64(5000), p1.Ledger.GetBalance(model.CurrencyCoins))
	assert.Equal(t, 1, m.Count())
}

func TestGetCollapsesConcurrentLoads(t *testing.T) {
	m, repo := newTestManager(t)
	repo.release = make(chan struct{})

	const n = 8
	var wg sync.WaitGroup
	profiles := make([]*Profile, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := m.Get(context.Background(), 7)
			assert.NoError(t, err)
			profiles[i] = p
		}(i)
	}

	require.Eventually(t, func() bool { return repo.loads.Load() == 1 }, time.Second, 5*time.Millisecond)
	// 给其余 goroutine 进入 singleflight 的时间
	time.Sleep(20 * time.Millisecond)
	close(repo.release)
	wg.Wait()

	assert.Equal(t, int32(1), repo.loads.Load())
	for _, p := range profiles {
		assert.Same(t, profiles[0], p)
	}
}

func TestSaveAndReload(t *testing.T) {
	m, repo := newTestManager(t)
	ctx := context.Background()

	p, err := m.Get(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, p.Do(func(p *Profile) error {
		if _, err := p.Ledger.Credit(model.CurrencyGems, 50, "daily", ""); err != nil {
			return err
		}
		return m.Save(ctx, p)
	}))

	m.Evict(1)
	assert.Equal(t, 0, m.Count())

	reloaded, err := m.Get(ctx, 1)
	require.NoError(t, err)
	assert.NotSame(t, p, reloaded)
	assert.Equal(t, int64(150), reloaded.Ledger.GetBalance(model.CurrencyGems))
	assert.Equal(t, int32(2), repo.loads.Load())
}

func TestPersistFailureEvicts(t *testing.T) {
	m, repo := newTestManager(t)
	ctx := context.Background()

	p, err := m.Get(ctx, 1)
	require.NoError(t, err)

	repo.failNext.Store(true)
	err = p.Do(func(p *Profile) error {
		if _, err := p.Ledger.Credit(model.CurrencyGems, 50, "daily", ""); err != nil {
			return err
		}
		return m.SaveWallet(ctx, p)
	})
	require.Error(t, err)
	assert.Equal(t, 0, m.Count())
	assert.ErrorIs(t, p.Do(func(*Profile) error { return nil }), ErrProfileEvicted)

	// 重新加载得到持久化的状态，未落盘的入账被丢弃
	reloaded, err := m.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), reloaded.Ledger.GetBalance(model.CurrencyGems))
}

func TestProfileDoSerializes(t *testing.T) {
	m, _ := newTestManager(t)
	p, err := m.Get(context.Background(), 1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Do(func(p *Profile) error {
				_, err := p.Ledger.Credit(model.CurrencyCoins, 1, "tick", "")
				return err
			})
		}()
	}
	wg.Wait()

	_ = p.Do(func(p *Profile) error {
		assert.Equal(t, int64(5050), p.Ledger.GetBalance(model.CurrencyCoins))
		assert.Len(t, p.Ledger.History(100), 50)
		return nil
	})
}

func TestQueuedMutationAfterEviction(t *testing.T) {
	m, repo := newTestManager(t)
	ctx := context.Background()

	stale, err := m.Get(ctx, 1)
	require.NoError(t, err)

	repo.failNext.Store(true)
	entered := make(chan struct{})
	release := make(chan struct{})
	first := make(chan error, 1)
	go func() {
		first <- stale.Do(func(p *Profile) error {
			close(entered)
			<-release
			if _, err := p.Ledger.Debit(model.CurrencyGems, 100, "first"); err != nil {
				return err
			}
			return m.SaveWallet(ctx, p)
		})
	}()
	<-entered

	// 驱逐前拿到旧档案的请求
	queued := make(chan error, 1)
	go func() {
		queued <- stale.Do(func(p *Profile) error {
			_, err := p.Ledger.Debit(model.CurrencyGems, 100, "queued")
			return err
		})
	}()
	retried := make(chan error, 1)
	go func() {
		retried <- m.Do(ctx, 1, func(p *Profile) error {
			if _, err := p.Ledger.Debit(model.CurrencyGems, 100, "retried"); err != nil {
				return err
			}
			return m.SaveWallet(ctx, p)
		})
	}()

	close(release)
	require.Error(t, <-first)
	assert.ErrorIs(t, <-queued, ErrProfileEvicted)
	require.NoError(t, <-retried)

	fresh, err := m.Get(ctx, 1)
	require.NoError(t, err)
	assert.NotSame(t, stale, fresh)

	// 100 钻石只能被扣一次
	err = m.Do(ctx, 1, func(p *Profile) error {
		_, err := p.Ledger.Debit(model.CurrencyGems, 100, "again")
		return err
	})
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
}

func TestEvictWaitsForInFlightMutation(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	p, err := m.Get(ctx, 1)
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- p.Do(func(p *Profile) error {
			close(entered)
			<-release
			if _, err := p.Ledger.Credit(model.CurrencyGems, 5, "bonus", ""); err != nil {
				return err
			}
			return m.SaveWallet(ctx, p)
		})
	}()
	<-entered

	evicted := make(chan struct{})
	go func() {
		m.Evict(1)
		close(evicted)
	}()
	close(release)
	require.NoError(t, <-done)
	<-evicted

	assert.Equal(t, 0, m.Count())
	assert.ErrorIs(t, p.Do(func(*Profile) error { return nil }), ErrProfileEvicted)

	err = m.Do(ctx, 1, func(p *Profile) error {
		assert.Equal(t, int64(105), p.Ledger.GetBalance(model.CurrencyGems))
		return nil
	})
	require.NoError(t, err)
}

func TestPartialSaveRollsBackWallet(t *testing.T) {
	tests := []struct {
		name string
		fail func(r *slowRepo)
		save func(m *PlayerManager, ctx context.Context, p *Profile, before model.WalletState) error
	}{
		{
			name: "pull",
			fail: func(r *slowRepo) { r.failGacha.Store(true) },
			save: (*PlayerManager).SavePull,
		},
		{
			name: "purchase",
			fail: func(r *slowRepo) { r.failCosmetics.Store(true) },
			save: (*PlayerManager).SavePurchase,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, repo := newTestManager(t)
			ctx := context.Background()
			tt.fail(repo)

			err := m.Do(ctx, 1, func(p *Profile) error {
				before := p.Ledger.Snapshot()
				if _, err := p.Ledger.Debit(model.CurrencyGems, 60, tt.name); err != nil {
					return err
				}
				return tt.save(m, ctx, p, before)
			})
			require.ErrorIs(t, err, errStoreDown)
			assert.Equal(t, 0, m.Count())

			// 钱包已先写入扣费后的状态，失败后被回写
			err = m.Do(ctx, 1, func(p *Profile) error {
				assert.Equal(t, int64(100), p.Ledger.GetBalance(model.CurrencyGems))
				assert.Empty(t, p.Ledger.History(10))
				return nil
			})
			require.NoError(t, err)
		})
	}
}

func TestCollapsedLoadSurvivesLeaderCancel(t *testing.T) {
	m, repo := newTestManager(t)
	repo.release = make(chan struct{})

	leaderCtx, cancel := context.WithCancel(context.Background())
	leader := make(chan error, 1)
	go func() {
		_, err := m.Get(leaderCtx, 9)
		leader <- err
	}()
	require.Eventually(t, func() bool { return repo.loads.Load() == 1 }, time.Second, 5*time.Millisecond)

	follower := make(chan error, 1)
	go func() {
		_, err := m.Get(context.Background(), 9)
		follower <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	close(repo.release)

	require.NoError(t, <-leader)
	require.NoError(t, <-follower)
	assert.Equal(t, int32(1), repo.loads.Load())
	assert.Equal(t, 1, m.Count())
}
