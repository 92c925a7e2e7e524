package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"fxconvert/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RateRepository struct {
	pool *pgxpool.Pool
}

type rateRow struct {
	Base  string  `json:"base"`
	Quote string  `json:"quote"`
	Value float64 `json:"value"`
}

// Upsert stores the batch in one transaction. A pair stored in the opposite
// direction is replaced, so each unordered pair is kept once.
func (r *RateRepository) Upsert(ctx context.Context, rates []domain.ConversionRate) error {
	if len(rates) == 0 {
		return nil
	}

	rows := latestPerPair(rates)
	payloadJSON, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal rates: %w", err)
	}
	codesJSON, err := json.Marshal(firstSeenCodes(rates))
	if err != nil {
		return fmt.Errorf("failed to marshal currencies: %w", err)
	}

	const deleteReversed = `
		delete from fx_rates fr
		using json_to_recordset($1::json) as ir(base text, quote text, value double precision)
		where fr.base = ir.quote and fr.quote = ir.base and ir.base <> ir.quote;
	`
	const registerCurrencies = `
		insert into fx_currencies(code)
		select c.code
		from json_array_elements_text($1::json) with ordinality as c(code, ord)
		order by c.ord
		on conflict (code) do nothing;
	`
	const upsert = `
		insert into fx_rates(base, quote, value, updated_at)
		select ir.base, ir.quote, ir.value, now()
		from json_to_recordset($1::json) as ir(base text, quote text, value double precision)
		on conflict (base, quote) do update
		set value = excluded.value, updated_at = now();
	`

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, registerCurrencies, json.RawMessage(codesJSON)); err != nil {
		return fmt.Errorf("failed to register currencies: %w", err)
	}
	if _, err = tx.Exec(ctx, deleteReversed, json.RawMessage(payloadJSON)); err != nil {
		return fmt.Errorf("failed to delete reversed pairs: %w", err)
	}
	if _, err = tx.Exec(ctx, upsert, json.RawMessage(payloadJSON)); err != nil {
		return fmt.Errorf("failed to upsert rates: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadAll returns every stored rate, oldest update first.
func (r *RateRepository) LoadAll(ctx context.Context) ([]domain.StoredRate, error) {
	const q = `select base, quote, value, updated_at from fx_rates order by updated_at, base, quote;`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query rates: %w", err)
	}
	defer rows.Close()

	rates := make([]domain.StoredRate, 0, 64)
	for rows.Next() {
		var sr domain.StoredRate
		if err = rows.Scan(&sr.Base, &sr.Quote, &sr.Value, &sr.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rate: %w", err)
		}
		rates = append(rates, sr)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rates: %w", err)
	}
	return rates, nil
}

// LoadCurrencies returns every stored code in the order it was first stored.
func (r *RateRepository) LoadCurrencies(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `select code from fx_currencies order by seq;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan currencies: %w", err)
	}
	return codes, nil
}

func (r *RateRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `with deleted as (delete from fx_rates) delete from fx_currencies;`); err != nil {
		return fmt.Errorf("failed to delete rates: %w", err)
	}
	return nil
}

// latestPerPair keeps the last rate given for every unordered pair, the same
// way the converter applies a batch.
func latestPerPair(rates []domain.ConversionRate) []rateRow {
	latest := make(map[domain.RatePair]int, len(rates))
	rows := make([]rateRow, 0, len(rates))
	for _, rt := range rates {
		pair := domain.RatePair{Base: rt.Base, Quote: rt.Quote}
		if i, ok := latest[pair.Reversed()]; ok {
			rows[i] = rateRow{Base: rt.Base, Quote: rt.Quote, Value: rt.Value}
			delete(latest, pair.Reversed())
			latest[pair] = i
			continue
		}
		if i, ok := latest[pair]; ok {
			rows[i].Value = rt.Value
			continue
		}
		latest[pair] = len(rows)
		rows = append(rows, rateRow{Base: rt.Base, Quote: rt.Quote, Value: rt.Value})
	}
	return rows
}

// firstSeenCodes lists the codes of a batch in the order the converter
// registers them: base before quote, triple by triple.
func firstSeenCodes(rates []domain.ConversionRate) []string {
	seen := make(map[string]struct{}, len(rates))
	codes := make([]string, 0, len(rates))
	for _, rt := range rates {
		for _, code := range []string{rt.Base, rt.Quote} {
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			codes = append(codes, code)
		}
	}
	return codes
}

func NewRateRepository(pool *pgxpool.Pool) *RateRepository {
	return &RateRepository{pool: pool}
}
