package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/fintrack-dev/fintrack/internal/config"
	"github.com/fintrack-dev/fintrack/internal/store"
)

const today = "2026-10-16"

func runFintrack(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--data-dir", dir, "--today", today}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := runFintrack(t, dir, args...)
	require.NoError(t, err, out)
	return out
}

func initDir(t *testing.T, args ...string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "data")
	mustRun(t, dir, append([]string{"init"}, args...)...)
	return dir
}

func TestInit_CreatesDataDir(t *testing.T) {
	dir := initDir(t)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, store.BackendFile, cfg.Storage.Backend)

	for _, key := range store.Keys {
		_, err := os.Stat(filepath.Join(dir, key+".json"))
		assert.NoError(t, err, key)
	}

	_, err = runFintrack(t, dir, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInit_SQLite(t *testing.T) {
	dir := initDir(t, "--backend", "sqlite")

	_, err := os.Stat(filepath.Join(dir, store.DefaultSQLiteFile))
	require.NoError(t, err)

	out := mustRun(t, dir, "asset", "add", "--name", "Wallet", "--amount", "1500")
	assert.Contains(t, out, `Added CASH "Wallet"`)
	assert.Contains(t, mustRun(t, dir, "asset", "list"), "Net worth 1500 TWD")
}

func TestNotInitialized(t *testing.T) {
	_, err := runFintrack(t, t.TempDir(), "sync")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fintrack init")
}

func TestBadToday(t *testing.T) {
	dir := initDir(t)
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--data-dir", dir, "--today", "16/10/2026", "sync"})
	assert.Error(t, cmd.Execute())
}

func TestAddLoan_ReconcilesImmediately(t *testing.T) {
	dir := initDir(t)

	out := mustRun(t, dir, "asset", "add-loan", "--name", "Mortgage", "--principal", "1000000", "--start", "2021-10-01")
	assert.Contains(t, out, "1000000 -> 786133")
	assert.Contains(t, out, "» Auto-updated this month's remaining principal for 1 loan(s)")

	out = mustRun(t, dir, "loan", "show")
	assert.Contains(t, out, "REPAYMENT")
	assert.Contains(t, out, "months elapsed   60")
	assert.Contains(t, out, "balance          786133")
	assert.Contains(t, out, "monthly payment  5059")

	out = mustRun(t, dir, "sync")
	assert.NotContains(t, out, "-> 786133", "second pass changes nothing")
	assert.Contains(t, out, "snapshot net worth -786133")
}

func TestAddLoan_ExplicitZeroRate(t *testing.T) {
	dir := initDir(t)

	out := mustRun(t, dir, "asset", "add-loan", "--name", "Family", "--principal", "240000",
		"--start", "2021-10-01", "--rate", "0")
	assert.Contains(t, out, "240000 -> 180000")
}

func TestRecurring_PostsOncePerMonth(t *testing.T) {
	dir := initDir(t)

	out := mustRun(t, dir, "recurring", "add", "--name", "Rent", "--amount", "18000", "--category", "Housing", "--day", "5")
	assert.Contains(t, out, "[Recurring] Rent")
	assert.Contains(t, out, "» Posted 1 recurring item(s) due this month")

	out = mustRun(t, dir, "sync")
	assert.NotContains(t, out, "[Recurring] Rent")

	out = mustRun(t, dir, "recurring", "list")
	assert.Contains(t, out, "POSTED")
	assert.Contains(t, out, "monthly day 5")

	csv := mustRun(t, dir, "export", "--csv")
	assert.Equal(t, 1, strings.Count(csv, "[Recurring] Rent"))
	assert.Contains(t, csv, "2026-10-05")
}

func TestRecurring_AddValidates(t *testing.T) {
	dir := initDir(t)
	_, err := runFintrack(t, dir, "recurring", "add", "--name", "Insurance", "--amount", "24000",
		"--category", "Bills", "--frequency", "yearly")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monthOfYear")
}

func TestBudget(t *testing.T) {
	dir := initDir(t)
	mustRun(t, dir, "recurring", "add", "--name", "Rent", "--amount", "18000", "--category", "Housing", "--day", "1")
	mustRun(t, dir, "budget", "set", "Housing", "20000")

	out := mustRun(t, dir, "budget", "status")
	assert.Contains(t, out, "Budget 2026-10: 18000 of 20000 (90%) WARNING")

	_, err := runFintrack(t, dir, "budget", "set", "Investment", "100")
	assert.Error(t, err)

	assert.Contains(t, mustRun(t, dir, "budget", "set", "Housing", "0"), "removed")
}

func TestExportImport(t *testing.T) {
	src := initDir(t)
	mustRun(t, src, "asset", "add-loan", "--name", "Mortgage", "--principal", "1000000", "--start", "2021-10-01")

	backupPath := filepath.Join(t.TempDir(), "backup.json")
	mustRun(t, src, "export", "--out", backupPath)

	data, err := os.ReadFile(backupPath)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, string(doc[store.KeyAssets]), "786133")

	dst := initDir(t)
	out := mustRun(t, dst, "import", backupPath)
	assert.Contains(t, out, "Imported ft_assets")
	assert.Contains(t, mustRun(t, dst, "asset", "list"), "Mortgage")
}

func TestHistoryAndLog(t *testing.T) {
	dir := initDir(t)
	mustRun(t, dir, "asset", "add", "--name", "Wallet", "--amount", "1500")

	assert.Contains(t, mustRun(t, dir, "history"), today)

	out := mustRun(t, dir, "log")
	assert.Contains(t, out, "snapshot")
	assert.Contains(t, out, "1500")
}

func TestSync_GitAutoCommit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := initDir(t, "--git")
	mustRun(t, dir, "asset", "add", "--name", "Wallet", "--amount", "1500")

	out := mustRun(t, dir, "sync")
	assert.Contains(t, out, "commit")

	log := exec.Command("git", "log", "--format=%s")
	log.Dir = dir
	msgs, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(msgs), "init: fintrack data directory")
	assert.Contains(t, string(msgs), "sync "+today)
}

func openData(t *testing.T, dir string) *store.Store {
	t.Helper()
	st, err := store.Open(dir, store.BackendFile, "")
	require.NoError(t, err)
	return st
}

func TestTransaction_AddListDelete(t *testing.T) {
	dir := initDir(t)

	out := mustRun(t, dir, "transaction", "add", "--item", "Lunch", "--amount", "120", "--category", "Food")
	assert.Contains(t, out, `Recorded EXPENSE "Lunch" 120 on 2026-10-16`)
	mustRun(t, dir, "tx", "add", "--item", "Salary", "--amount", "70000", "--category", "Salary",
		"--type", "income", "--date", "2026-10-01")
	mustRun(t, dir, "tx", "add", "--item", "Book", "--amount", "450", "--category", "Education", "--date", "2026-09-20")

	out = mustRun(t, dir, "transaction", "list")
	assert.Contains(t, out, "Lunch")
	assert.Contains(t, out, "MANUAL")
	assert.NotContains(t, out, "Book")
	assert.Contains(t, out, "2026-10: income 70000, expense 120, net 69880")
	assert.Less(t, strings.Index(out, "Lunch"), strings.Index(out, "Salary"), "newest first")

	out = mustRun(t, dir, "transaction", "list", "--all")
	assert.Contains(t, out, "Book")
	assert.Contains(t, out, "all time: income 70000, expense 570")

	txns, err := openData(t, dir).LoadTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, txns, 3)

	out = mustRun(t, dir, "transaction", "delete", txns[0].ID)
	assert.Contains(t, out, `Deleted "Lunch" 120 on 2026-10-16`)
	assert.NotContains(t, mustRun(t, dir, "transaction", "list"), "Lunch")

	_, err = runFintrack(t, dir, "transaction", "delete", txns[0].ID)
	assert.Error(t, err)

	log := mustRun(t, dir, "log")
	assert.Contains(t, log, "add_transaction")
	assert.Contains(t, log, "delete_transaction")
}

func TestTransaction_AddValidates(t *testing.T) {
	dir := initDir(t)
	_, err := runFintrack(t, dir, "transaction", "add", "--item", "Lunch", "--amount", "-1", "--category", "Food")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount")

	_, err = runFintrack(t, dir, "transaction", "add", "--item", "Lunch", "--amount", "10", "--category", "Food",
		"--date", "yesterday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date")
}

func TestTransaction_ListShowsRecurringPostings(t *testing.T) {
	dir := initDir(t)
	mustRun(t, dir, "recurring", "add", "--name", "Rent", "--amount", "18000", "--category", "Housing", "--day", "5")

	out := mustRun(t, dir, "transaction", "list")
	assert.Contains(t, out, "[Recurring] Rent")
	assert.Contains(t, out, "RECURRING_AUTO")
}

func TestAsset_UpdateAndDelete(t *testing.T) {
	dir := initDir(t)
	mustRun(t, dir, "asset", "add-loan", "--name", "Mortgage", "--principal", "1000000", "--start", "2021-10-01")
	mustRun(t, dir, "asset", "add", "--name", "Wallet", "--amount", "1500")

	list, err := openData(t, dir).LoadAssets(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	mortgageID, walletID := list[0].ID, list[1].ID

	// Changing the rate re-derives the balance in the same command.
	out := mustRun(t, dir, "asset", "update", mortgageID, "--rate", "0")
	assert.Contains(t, out, `Updated DEBT "Mortgage"`)
	assert.Contains(t, out, "786133 -> 750000")

	// A hand-edited loan balance is pulled back to the schedule.
	out = mustRun(t, dir, "asset", "update", mortgageID, "--amount", "1")
	assert.Contains(t, out, "1 -> 750000")

	out = mustRun(t, dir, "asset", "update", walletID, "--name", "Pocket", "--amount", "2500")
	assert.Contains(t, out, "snapshot net worth -747500")

	out = mustRun(t, dir, "asset", "list")
	assert.Contains(t, out, "Pocket")
	assert.Contains(t, out, "CASH total")
	assert.Contains(t, out, "DEBT total")

	out = mustRun(t, dir, "asset", "delete", mortgageID)
	assert.Contains(t, out, `Deleted DEBT "Mortgage"`)
	assert.Contains(t, out, "snapshot net worth 2500")

	_, err = runFintrack(t, dir, "asset", "delete", mortgageID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "asset not found")

	_, err = runFintrack(t, dir, "asset", "update", "missing", "--amount", "5")
	assert.Error(t, err)
}

func TestRecurring_Delete(t *testing.T) {
	dir := initDir(t)
	mustRun(t, dir, "recurring", "add", "--name", "Gym", "--amount", "1200", "--category", "Health", "--day", "28")

	items, err := openData(t, dir).LoadRecurringItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	out := mustRun(t, dir, "recurring", "delete", items[0].ID)
	assert.Contains(t, out, `Deleted recurring EXPENSE "Gym"`)
	assert.NotContains(t, mustRun(t, dir, "recurring", "list"), "Gym")

	_, err = runFintrack(t, dir, "recurring", "delete", items[0].ID)
	assert.Error(t, err)
}

func TestInvestSnapshot(t *testing.T) {
	dir := initDir(t)

	out := mustRun(t, dir, "invest", "snapshot", "add",
		"--position", "2330,TSMC,1000,500,600",
		"--position", `0050,"Yuanta Taiwan 50",200,150,120`)
	assert.Contains(t, out, "Recorded 2 position(s): market value 624000, unrealized P/L 94000")
	assert.Contains(t, out, `» Created asset "Stock account (auto)" with the holdings value`)
	assert.Contains(t, out, "snapshot net worth 624000")

	out = mustRun(t, dir, "invest", "snapshot", "add", "--position", "2330,TSMC,1000,500,650")
	assert.Contains(t, out, `» Synced asset "Stock account (auto)" to 650000`)

	list, err := openData(t, dir).LoadAssets(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1, "the existing STOCK asset is reused")

	out = mustRun(t, dir, "invest", "snapshot", "list", "--positions")
	assert.Contains(t, out, "624000")
	assert.Contains(t, out, "650000")
	assert.Contains(t, out, "Holdings on "+today)
	assert.Contains(t, out, "30%")

	_, err = runFintrack(t, dir, "invest", "snapshot", "add", "--position", "2330,TSMC,many,500,600")
	assert.Error(t, err)

	backup := mustRun(t, dir, "export")
	assert.Contains(t, backup, `"ft_stock_snapshots"`)
	assert.Contains(t, backup, `"TSMC"`)
}

type fakeCaller struct{ answer string }

func (f fakeCaller) Call(context.Context, string, *genai.Schema) (json.RawMessage, error) {
	return json.RawMessage(f.answer), nil
}

func TestAdviseBudgets(t *testing.T) {
	dir := initDir(t)
	g := &globals{dataDir: dir, today: today, logLevel: "warn"}
	cmd := newAdviseBudgetsCommand(g, fakeCaller{answer: `[{"category": "Food", "limit": 9000}, {"category": "Investment", "limit": 1}]`})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--apply"})
	require.NoError(t, cmd.Execute(), out.String())

	assert.Contains(t, out.String(), "Food")
	assert.NotContains(t, out.String(), "Investment")
	assert.Contains(t, out.String(), "Saved 1 budget limit(s)")

	assert.Contains(t, mustRun(t, dir, "budget", "status"), "Food")
}
