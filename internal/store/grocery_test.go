package store

import (
	"testing"

	"github.com/andywinn76/todo-app/internal/model"
)

func setupGroceryTest(t *testing.T) (*GroceryStore, *model.List) {
	t.Helper()
	db := setupTestDB(t)
	us := NewUserStore(db)
	ls := NewListStore(db)
	alice := createTestUser(t, us, "alice")
	list, err := ls.Create("Groceries", model.KindGrocery, alice.ID)
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	return NewGroceryStore(db), list
}

func TestGroceryItemCRUD(t *testing.T) {
	gs, list := setupGroceryTest(t)

	item, err := gs.Create(list.ID, "Milk", "1 gallon")
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if item.Name != "Milk" || item.Quantity != "1 gallon" {
		t.Errorf("item = %+v", item)
	}
	if item.Checked {
		t.Error("expected new item unchecked")
	}

	updated, err := gs.Update(item.ID, "Whole milk", "2")
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if updated.Name != "Whole milk" || updated.Quantity != "2" {
		t.Errorf("updated = %+v", updated)
	}

	checked, err := gs.SetChecked(item.ID, true)
	if err != nil {
		t.Fatalf("set checked: %v", err)
	}
	if !checked.Checked {
		t.Error("expected checked true")
	}

	if err := gs.Delete(item.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	if got, _ := gs.GetByID(item.ID); got != nil {
		t.Error("expected item gone")
	}
}

func TestGroceryListOrdering(t *testing.T) {
	gs, list := setupGroceryTest(t)

	milk, _ := gs.Create(list.ID, "Milk", "")
	eggs, _ := gs.Create(list.ID, "Eggs", "")
	bread, _ := gs.Create(list.ID, "Bread", "")
	gs.SetChecked(milk.ID, true)

	items, err := gs.ListByList(list.ID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	// Unchecked in insertion order first, checked last.
	want := []int64{eggs.ID, bread.ID, milk.ID}
	for i, item := range items {
		if item.ID != want[i] {
			t.Errorf("items[%d].ID = %d, want %d", i, item.ID, want[i])
		}
	}
}
