package usecase

import (
	"fmt"
	"strings"

	"github.com/mk-bot-cloud/my-notion-widgets/internal/domain"
)

func summaryPrompt(page domain.AbstractPage) string {
	var b strings.Builder
	b.WriteString("以下は医学論文の情報です。\n\n")
	fmt.Fprintf(&b, "タイトル: %s\n", page.Title)
	fmt.Fprintf(&b, "ジャーナル: %s\n", page.Journal)
	fmt.Fprintf(&b, "抄録: %s\n\n", page.Abstract)
	b.WriteString("この論文について、次のキーを持つJSONオブジェクトのみを返してください。\n")
	b.WriteString(`{"translatedTitle": "タイトルの自然な日本語訳", "journal": "ジャーナル名", "summary": "抄録の要約"}` + "\n")
	b.WriteString("summaryは180〜200文字の日本語で、臨床家向けのですます調で書いてください。JSON以外の文字は出力しないでください。")
	return b.String()
}

func questionPrompt(bullets []string) string {
	var b strings.Builder
	b.WriteString("以下は最近要約した医学論文の一覧です。\n\n")
	b.WriteString(strings.Join(bullets, "\n"))
	b.WriteString("\n\nこれらを踏まえ、理学療法士の勉強会で使えるオープンエンドな問いをちょうど3つ提案してください。\n")
	b.WriteString(`回答は次の形式のJSONオブジェクトのみとします: {"actions": [{"q": "問い"}, {"q": "問い"}, {"q": "問い"}]}`)
	return b.String()
}
