package bot

import "testing"

func TestExtractReplyEmbeddedObject(t *testing.T) {
	got := ExtractReply(`some noise {"message":"hello"} trailing`)
	if got != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}

func TestExtractReplyPlainText(t *testing.T) {
	raw := "just plain text"
	if got := ExtractReply(raw); got != raw {
		t.Errorf("got %q, want input unchanged", got)
	}
}

func TestExtractReplyUnbalancedBraces(t *testing.T) {
	raw := "{not json"
	if got := ExtractReply(raw); got != raw {
		t.Errorf("got %q, want input unchanged", got)
	}
}

func TestExtractReplyEmulatorBlob(t *testing.T) {
	// The bot emulator answers with a multi-line blob carrying two JSON
	// objects; only the first one holds the reply.
	raw := `[BOT_SYSTEM_LOG] 처리가 완료되었습니다.
데이터 시작 ---
{"roomId": "r1", "sender": "AI_BOT", "message": "가격은 월 10,000원입니다."}
{"status": "COMPLETED", "timestamp": "2026-08-28T00:00:00Z"}
데이터 끝 ---
이 메시지는 에뮬레이터에서 자동 생성되었습니다.`

	got := ExtractReply(raw)
	if got != "가격은 월 10,000원입니다." {
		t.Errorf("got %q, want first object's message", got)
	}
}

func TestExtractReplyBracesInsideString(t *testing.T) {
	got := ExtractReply(`{"message":"a {b} c"}`)
	if got != "a {b} c" {
		t.Errorf("got %q, want %q", got, "a {b} c")
	}
}

func TestExtractReplyNestedObject(t *testing.T) {
	got := ExtractReply(`pre {"data":{"x":1},"message":"deep"} post`)
	if got != "deep" {
		t.Errorf("got %q, want %q", got, "deep")
	}
}

func TestExtractReplyObjectWithoutMessage(t *testing.T) {
	raw := `{"status":"ok"}`
	if got := ExtractReply(raw); got != raw {
		t.Errorf("got %q, want input unchanged", got)
	}
}

func TestExtractReplyEmpty(t *testing.T) {
	if got := ExtractReply(""); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestFirstBalancedObjectStopsAtFirstSpan(t *testing.T) {
	span, ok := firstBalancedObject(`{"a":1} {"b":2}`)
	if !ok {
		t.Fatal("expected a span")
	}
	if span != `{"a":1}` {
		t.Errorf("got %q, want first object only", span)
	}
}

func TestFirstBalancedObjectEscapedQuote(t *testing.T) {
	span, ok := firstBalancedObject(`{"message":"he said \"{\" once"}`)
	if !ok {
		t.Fatal("expected a span")
	}
	if span != `{"message":"he said \"{\" once"}` {
		t.Errorf("got %q", span)
	}
}
