package store

import (
	"testing"
	"time"

	"github.com/andywinn76/todo-app/internal/model"
)

func setupTaskTest(t *testing.T) (*TaskStore, *model.List) {
	t.Helper()
	db := setupTestDB(t)
	us := NewUserStore(db)
	ls := NewListStore(db)
	alice := createTestUser(t, us, "alice")
	list, err := ls.Create("Work", model.KindTask, alice.ID)
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	return NewTaskStore(db), list
}

func TestTaskCRUD(t *testing.T) {
	ts, list := setupTaskTest(t)

	task, err := ts.Create(list.ID, "Write report", "quarterly numbers", model.PriorityHigh, nil)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.Title != "Write report" {
		t.Errorf("title = %q", task.Title)
	}
	if task.Completed {
		t.Error("expected new task incomplete")
	}

	updated, err := ts.Update(task.ID, "Write report", "final numbers", model.PriorityLow, nil)
	if err != nil {
		t.Fatalf("update task: %v", err)
	}
	if updated.Description != "final numbers" {
		t.Errorf("description = %q", updated.Description)
	}
	if updated.Priority != model.PriorityLow {
		t.Errorf("priority = %q", updated.Priority)
	}

	done, err := ts.SetCompleted(task.ID, true)
	if err != nil {
		t.Fatalf("set completed: %v", err)
	}
	if !done.Completed {
		t.Error("expected completed true")
	}
	undone, err := ts.SetCompleted(task.ID, false)
	if err != nil {
		t.Fatalf("unset completed: %v", err)
	}
	if undone.Completed {
		t.Error("expected completed false")
	}

	if err := ts.Delete(task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if got, _ := ts.GetByID(task.ID); got != nil {
		t.Error("expected task gone")
	}
}

func TestTaskDefaultPriority(t *testing.T) {
	ts, list := setupTaskTest(t)

	task, err := ts.Create(list.ID, "No priority", "", "", nil)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.Priority != model.PriorityMedium {
		t.Errorf("priority = %q, want medium default", task.Priority)
	}
}

func TestTaskListOrdering(t *testing.T) {
	ts, list := setupTaskTest(t)

	soon := time.Now().Add(24 * time.Hour).UTC()
	later := time.Now().Add(72 * time.Hour).UTC()

	noDue, _ := ts.Create(list.ID, "someday", "", "", nil)
	dueLater, _ := ts.Create(list.ID, "later", "", "", &later)
	dueSoon, _ := ts.Create(list.ID, "soon", "", "", &soon)

	tasks, err := ts.ListByList(list.ID)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	// Dated tasks first ascending, undated last.
	want := []int64{dueSoon.ID, dueLater.ID, noDue.ID}
	for i, task := range tasks {
		if task.ID != want[i] {
			t.Errorf("tasks[%d].ID = %d, want %d", i, task.ID, want[i])
		}
	}
}
