package engine

import (
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/production"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

func batchSpec(tx *txn, family production.Family) (production.Family, production.Spec, error) {
	f, err := production.ParseFamily(string(family))
	if err != nil {
		return "", production.Spec{}, err
	}
	spec, ok := tx.cat.Batches[f]
	if !ok {
		return "", production.Spec{}, shared.NewUnknownEntryError("batch", string(f))
	}
	return f, spec, nil
}

// handleStartBatch deducts amount*cost all at once; the timer is only armed
// when the queue was idle, otherwise the running chain picks the batches up.
func handleStartBatch(tx *txn, action Action) error {
	a, err := as[StartBatch](action)
	if err != nil {
		return err
	}
	f, spec, err := batchSpec(tx, a.Family)
	if err != nil {
		return err
	}
	if a.Amount <= 0 {
		return shared.NewValidationError("amount", "must start at least one batch")
	}
	if err := checkAmount(a.Amount); err != nil {
		return err
	}
	s := tx.state
	if spec.Requires != "" && !s.HasStructure(spec.Requires) {
		return shared.NewMissingStructureError(spec.Requires)
	}
	cost, err := spec.Cost.Scale(a.Amount)
	if err != nil {
		return err
	}
	if err := s.Inventory.Debit(cost); err != nil {
		return err
	}

	q := s.Queues.Get(f)
	if q.Enqueue(a.Amount, tx.now, spec.Duration) {
		tx.emit(ScheduleBatch{Family: f, At: *q.NextCompletionAt})
	}
	tx.log(game.LogInfo, "Queued %d %s batch(es), %d pending", a.Amount, f, q.Count)
	return nil
}

// handleFinishBatch retires the head batch when its stored deadline has passed.
// Early or duplicate timer fires are ignored without a log entry.
func handleFinishBatch(tx *txn, action Action) error {
	a, err := as[FinishBatch](action)
	if err != nil {
		return err
	}
	f, spec, err := batchSpec(tx, a.Family)
	if err != nil {
		return err
	}
	s := tx.state
	q := s.Queues.Get(f)
	if !q.Due(tx.now) {
		return errIgnored
	}
	if err := q.Complete(tx.now, spec.Duration); err != nil {
		return err
	}

	got := s.Inventory.Add(spec.Output, 1, tx.invCap())
	if got == 0 {
		tx.log(game.LogWarning, "A %s batch finished but storage is full; the output was lost", f)
	} else {
		tx.log(game.LogSuccess, "Produced 1 %s (%d left in queue)", tx.cat.DisplayName(spec.Output), q.Count)
	}
	if q.NextCompletionAt != nil {
		tx.emit(ScheduleBatch{Family: f, At: *q.NextCompletionAt})
	}
	tx.grantXP(spec.XP, "batch")
	return nil
}
