package memhost

import (
	"errors"
	"fmt"

	"github.com/chazu/famdef/pkg/host"
)

// ErrNestedTransaction is returned by Begin while a transaction is open.
var ErrNestedTransaction = errors.New("memhost: a transaction is already open")

type transaction struct {
	doc      *Document
	name     string
	snapshot *state
	done     bool
}

// Begin opens a transaction. The document state is snapshotted so that
// RollBack can restore it.
func (d *Document) Begin(name string) (host.Transaction, error) {
	if d.tx != nil {
		return nil, fmt.Errorf("%w (%q)", ErrNestedTransaction, d.tx.name)
	}
	d.tx = &transaction{doc: d, name: name, snapshot: d.st.clone()}
	return d.tx, nil
}

func (t *transaction) Commit() error {
	if t.done {
		return fmt.Errorf("memhost: transaction %q already finished", t.name)
	}
	if err := t.doc.failure(OpCommit); err != nil {
		return err
	}
	t.done = true
	t.doc.tx = nil
	return nil
}

func (t *transaction) RollBack() error {
	if t.done {
		return fmt.Errorf("memhost: transaction %q already finished", t.name)
	}
	t.doc.st = t.snapshot
	t.done = true
	t.doc.tx = nil
	return nil
}
