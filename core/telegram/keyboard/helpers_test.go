package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInlineButtonsOnePerRow(t *testing.T) {
	markup := InlineButtons([]InlineBtn{
		{Text: "Reply to Ana", Data: "reply:42"},
		{Text: "Reply to Bo", Data: "reply:43"},
	})
	require.Len(t, markup.InlineKeyboard, 2)
	require.Len(t, markup.InlineKeyboard[0], 1)

	btn := markup.InlineKeyboard[0][0]
	assert.Equal(t, "Reply to Ana", btn.Text)
	assert.Equal(t, "reply:42", btn.Data)
	assert.Empty(t, btn.Unique)
	assert.Equal(t, "reply:43", markup.InlineKeyboard[1][0].Data)
}

func TestInlineButtonsRows(t *testing.T) {
	markup := InlineButtonsRows(
		[]InlineBtn{{Text: "a", Unique: "x", Data: "1"}, {Text: "b", Unique: "x", Data: "2"}},
	)
	require.Len(t, markup.InlineKeyboard, 1)
	assert.Len(t, markup.InlineKeyboard[0], 2)
	assert.Equal(t, "x", markup.InlineKeyboard[0][1].Unique)
}
