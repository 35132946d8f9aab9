package converter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tinyHand = `{"game_number":"%s","start_date_utc":"2024-01-01T10:00:00.000Z","table_name":"T","table_size":2,"dealer_seat":1,` +
	`"small_blind_amount":1,"big_blind_amount":2,` +
	`"players":[{"id":1,"seat":1,"name":"A","starting_stack":100},{"id":2,"seat":2,"name":"B","starting_stack":100}],` +
	`"rounds":[{"id":0,"street":"Preflop","actions":[` +
	`{"action_number":0,"player_id":1,"action":"Post SB","amount":1},` +
	`{"action_number":1,"player_id":2,"action":"Post BB","amount":2},` +
	`{"action_number":2,"player_id":1,"action":"Fold"}]}],` +
	`"pots":[{"number":0,"amount":3,"rake":0,"player_wins":[{"player_id":2,"win_amount":3}]}]}`

func tiny(gameNumber string) string {
	return strings.Replace(tinyHand, "%s", gameNumber, 1)
}

var sampleWant = strings.Join([]string{
	"PokerStars Hand #lv0irhede81k: Hold'em No Limit ($0.05/$0.10 PPC) - 2023-12-05 02:50:49 UTC",
	"Table 'pglCX2WsUJbPBjsNSE1siiDJy' 10-max Seat #8 is the button",
	"Seat 1: Agapito ($19.90 in chips)",
	"Seat 4: DubNation ($9.80 in chips)",
	"Seat 5: CFFl2rCOze ($11.20 in chips)",
	"Seat 6: -c6EEVvXCE ($10.00 in chips)",
	"Seat 7: E9V-2MDLwt ($10.55 in chips)",
	"Seat 8: JzhSREGpIj ($8.55 in chips)",
	"Agapito: posts small blind $0.05",
	"DubNation: posts big blind $0.10",
	"*** HOLE CARDS ***",
	"Dealt to DubNation [Ks 2c]",
	"Dealt to -c6EEVvXCE [8s Ac]",
	"CFFl2rCOze: folds",
	"-c6EEVvXCE: raises $0.12 to $0.22",
	"E9V-2MDLwt: folds",
	"JzhSREGpIj: folds",
	"Agapito: folds",
	"DubNation: calls $0.12",
	"*** FLOP *** [4d 3c Kd]",
	"DubNation: checks",
	"-c6EEVvXCE: bets $0.24",
	"DubNation: calls $0.24",
	"*** TURN *** [4d 3c Kd] [Tc]",
	"DubNation: checks",
	"-c6EEVvXCE: checks",
	"*** RIVER *** [4d 3c Kd Tc] [Js]",
	"DubNation: bets $0.48",
	"-c6EEVvXCE: raises $1.02 to $1.50",
	"DubNation: calls $1.02",
	"DubNation: shows [Ks 2c]",
	"-c6EEVvXCE: shows [8s Ac]",
	"*** SUMMARY ***",
	"Total pot $3.97 | Rake $0.00",
	"Board [4d 3c Kd Tc Js]",
	"Seat 4: DubNation collected ($3.97)",
}, "\n")

func TestConvertFileSample(t *testing.T) {
	out, err := New().ConvertFile(context.Background(), "testdata/sample_hand.ohh")
	require.NoError(t, err)
	assert.Equal(t, sampleWant, out)
}

func TestConvertSampleOrdering(t *testing.T) {
	data, err := os.ReadFile("testdata/sample_hand.ohh")
	require.NoError(t, err)

	out, err := Convert(string(data))
	require.NoError(t, err)

	dub := strings.Index(out, "DubNation: shows [Ks 2c]")
	bdawg := strings.Index(out, "-c6EEVvXCE: shows [8s Ac]")
	require.NotEqual(t, -1, dub)
	require.NotEqual(t, -1, bdawg)
	assert.Less(t, dub, bdawg)
	assert.Less(t, strings.Index(out, "*** FLOP ***"), strings.Index(out, "*** TURN ***"))
	assert.Less(t, strings.Index(out, "*** TURN ***"), strings.Index(out, "*** RIVER ***"))
}

func TestConvertJoinsHandsInOrder(t *testing.T) {
	out, err := Convert(tiny("one") + "\n\n" + tiny("two") + "\n\n" + tiny("three"))
	require.NoError(t, err)

	blocks := strings.Split(out, HandSeparator)
	require.Len(t, blocks, 3)
	for i, want := range []string{"one", "two", "three"} {
		assert.True(t, strings.HasPrefix(blocks[i], "PokerStars Hand #"+want+":"), blocks[i])
	}
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestConvertSkipsMalformedChunks(t *testing.T) {
	out, stats, err := New().ConvertDetailed(context.Background(), `{"ohh": {"game_number": "x",`+"\n\n"+tiny("ok"))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Hands)
	assert.Equal(t, 2, stats.Chunks)
	assert.Len(t, stats.Failures, 1)
	assert.NotContains(t, out, HandSeparator)
	assert.Contains(t, out, "PokerStars Hand #ok:")
}

func TestConvertNoHands(t *testing.T) {
	_, err := Convert("definitely not json")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoHands)

	_, err = Convert("")
	assert.ErrorIs(t, err, ErrNoHands)
}

func TestConvertWorkersKeepOutputStable(t *testing.T) {
	var chunks []string
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		chunks = append(chunks, tiny(id))
	}
	input := strings.Join(chunks, "\n\n")

	serial, err := New().Convert(context.Background(), input)
	require.NoError(t, err)

	for _, workers := range []int{0, 2, 8} {
		parallel, err := New(WithWorkers(workers)).Convert(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, serial, parallel, "workers=%d", workers)
	}
}

func TestConvertHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Convert(ctx, tiny("a"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConvertFileRejectsExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hands.csv")
	require.NoError(t, os.WriteFile(path, []byte(tiny("a")), 0o644))

	_, err := New().ConvertFile(context.Background(), path)
	assert.ErrorIs(t, err, ErrUnsupportedExtension)

	out, err := New(WithExtensions(".csv")).ConvertFile(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, out, "PokerStars Hand #a:")
}

func TestConvertFileReadError(t *testing.T) {
	_, err := New().ConvertFile(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAccepts(t *testing.T) {
	c := New()
	assert.True(t, c.Accepts("a.ohh"))
	assert.True(t, c.Accepts("dir/a.JSON"))
	assert.True(t, c.Accepts("a.txt"))
	assert.False(t, c.Accepts("a.csv"))
	assert.False(t, c.Accepts("noext"))
}
