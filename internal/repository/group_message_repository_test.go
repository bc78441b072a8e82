package repository

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/openalum/alumnet-backend/internal/model"
)

func seedGroup(t *testing.T, db *gorm.DB, owner *model.User, members ...*model.User) *model.GroupChat {
	t.Helper()
	ids := []uint64{owner.ID}
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	g, err := NewGroupRepo(db).Create(ctx(), "test group", owner.ID, ids)
	if err != nil {
		t.Fatalf("seed group: %v", err)
	}
	return g
}

func TestGroupMessageSendRequiresMembership(t *testing.T) {
	db := testDB(t)
	repo := NewGroupMessageRepo(db)
	alice := seedUser(t, db, "alice")
	eve := seedUser(t, db, "eve")
	g := seedGroup(t, db, alice)

	if _, err := repo.Send(ctx(), g.ID, eve.ID, "hi"); !errors.Is(err, ErrNotMember) {
		t.Fatalf("outsider send err = %v, want ErrNotMember", err)
	}
	if _, err := repo.Send(ctx(), 9999, alice.ID, "hi"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing group err = %v, want ErrNotFound", err)
	}

	msg, err := repo.Send(ctx(), g.ID, alice.ID, "hi")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.SenderUsername != "alice" {
		t.Fatalf("sender username = %q, want alice (from membership record)", msg.SenderUsername)
	}
}

func TestGroupMessagePaging(t *testing.T) {
	db := testDB(t)
	repo := NewGroupMessageRepo(db)
	alice := seedUser(t, db, "alice")
	g := seedGroup(t, db, alice)

	for i := 0; i < 5; i++ {
		if _, err := repo.Send(ctx(), g.ID, alice.ID, fmt.Sprintf("msg-%d", i)); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}

	all, err := repo.List(ctx(), g.ID, alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 5 || all[0].Content != "msg-0" || all[4].Content != "msg-4" {
		t.Fatalf("list = %+v, want 5 messages oldest first", all)
	}

	page, total, err := repo.Page(ctx(), g.ID, alice.ID, 1, 2)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}
	if len(page) != 2 || page[0].Content != "msg-2" || page[1].Content != "msg-3" {
		t.Fatalf("page 1 size 2 = %+v, want msg-2 and msg-3", page)
	}

	// A page past the end is empty, not an error.
	tail, total, err := repo.Page(ctx(), g.ID, alice.ID, 10, 2)
	if err != nil || total != 5 || len(tail) != 0 {
		t.Fatalf("page past end = (%v, %d, %v), want empty page", tail, total, err)
	}
}

func TestGroupMessageSearch(t *testing.T) {
	db := testDB(t)
	repo := NewGroupMessageRepo(db)
	alice := seedUser(t, db, "alice")
	eve := seedUser(t, db, "eve")
	g := seedGroup(t, db, alice)

	for _, content := range []string{"Deploy on Friday", "lunch?", "friday works", "deployment done"} {
		if _, err := repo.Send(ctx(), g.ID, alice.ID, content); err != nil {
			t.Fatalf("send: %v", err)
		}
	}

	got, total, err := repo.Search(ctx(), g.ID, alice.ID, "FRIDAY", 0, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Fatalf("search total = %d len = %d, want 2 case-insensitive matches", total, len(got))
	}
	if got[0].Content != "Deploy on Friday" || got[1].Content != "friday works" {
		t.Fatalf("search results = %+v, want oldest first", got)
	}

	if _, _, err := repo.Search(ctx(), g.ID, eve.ID, "friday", 0, 10); !errors.Is(err, ErrNotMember) {
		t.Fatalf("outsider search err = %v, want ErrNotMember", err)
	}
}

func TestGroupMessageDeleteAuthorOnly(t *testing.T) {
	db := testDB(t)
	repo := NewGroupMessageRepo(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	g := seedGroup(t, db, alice, bob)

	msg, err := repo.Send(ctx(), g.ID, bob.ID, "my message")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	// Even the group owner may not delete someone else's message.
	if err := repo.Delete(ctx(), g.ID, msg.ID, alice.ID); !errors.Is(err, ErrNotMessageSender) {
		t.Fatalf("owner delete err = %v, want ErrNotMessageSender", err)
	}
	if err := repo.Delete(ctx(), g.ID, msg.ID, bob.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if err := repo.Delete(ctx(), g.ID, msg.ID, bob.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete twice err = %v, want ErrNotFound", err)
	}
}

func TestGroupMessageDeleteWrongGroup(t *testing.T) {
	db := testDB(t)
	repo := NewGroupMessageRepo(db)
	alice := seedUser(t, db, "alice")
	g1 := seedGroup(t, db, alice)
	g2, err := NewGroupRepo(db).Create(ctx(), "other", alice.ID, []uint64{alice.ID})
	if err != nil {
		t.Fatalf("create second group: %v", err)
	}

	msg, err := repo.Send(ctx(), g1.ID, alice.ID, "hello")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := repo.Delete(ctx(), g2.ID, msg.ID, alice.ID); !errors.Is(err, ErrMessageNotInGroup) {
		t.Fatalf("cross-group delete err = %v, want ErrMessageNotInGroup", err)
	}
}
