package data

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestMessagesListAndHide(t *testing.T) {
	c := setupDB(t)
	msgs := NewMessagesStore(c.MessagesCollection())

	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)
	discussion, author := bson.NewObjectID(), bson.NewObjectID()

	var saved []*Message
	for i := 0; i < 5; i++ {
		at := base.Add(time.Duration(i) * time.Second)
		m, err := msgs.CreateMessage(ctx, &Message{
			Author: author, Discussion: discussion, Content: "hi", IsShowed: true, CreatedAt: at, UpdatedAt: at,
		})
		if err != nil {
			t.Fatalf("CreateMessage failed: %v", err)
		}
		saved = append(saved, m)
	}

	// message in another discussion must not leak into the listing
	if _, err := msgs.CreateMessage(ctx, &Message{Author: author, Discussion: bson.NewObjectID(), Content: "x", IsShowed: true, CreatedAt: base}); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}

	if err := msgs.HideMessage(ctx, saved[1].ID, base); err != nil {
		t.Fatalf("HideMessage failed: %v", err)
	}
	// hiding twice is fine and keeps the first hide time
	if err := msgs.HideMessage(ctx, saved[1].ID, base.Add(time.Hour)); err != nil {
		t.Fatalf("HideMessage (again) failed: %v", err)
	}
	hidden, err := msgs.GetMessageByID(ctx, saved[1].ID)
	if err != nil {
		t.Fatalf("GetMessageByID failed: %v", err)
	}
	if hidden.IsShowed || !hidden.UpdatedAt.Equal(base) {
		t.Fatalf("unexpected message after second hide: %+v", hidden)
	}
	if err := msgs.HideMessage(ctx, bson.NewObjectID(), base); err != ErrNotFound {
		t.Fatalf("HideMessage on a missing message: got %v, want ErrNotFound", err)
	}

	total, err := msgs.CountVisibleMessages(ctx, discussion)
	if err != nil {
		t.Fatalf("CountVisibleMessages failed: %v", err)
	}
	if total != 4 {
		t.Fatalf("expected 4 visible messages, got %d", total)
	}

	page, err := msgs.ListVisibleMessages(ctx, discussion, 1, 2)
	if err != nil {
		t.Fatalf("ListVisibleMessages failed: %v", err)
	}
	if len(page) != 2 || page[0].ID != saved[2].ID || page[1].ID != saved[3].ID {
		t.Fatalf("unexpected page: %v", page)
	}

	if err := msgs.UpdateContent(ctx, saved[0].ID, "edited", base); err != nil {
		t.Fatalf("UpdateContent failed: %v", err)
	}
	got, err := msgs.GetMessageByID(ctx, saved[0].ID)
	if err != nil {
		t.Fatalf("GetMessageByID failed: %v", err)
	}
	if got.Content != "edited" || !got.IsShowed {
		t.Fatalf("unexpected message after edit: %+v", got)
	}
}
