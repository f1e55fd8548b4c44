package command

// Replies sent into chats. Group members read these, so they stay in French.
const (
	ReplyPing    = "🏓 Pong! Bot en ligne!"
	ReplyBonjour = "👋 Salut! Bot WhatsApp avec whatsmeow!"

	ReplyHelp = `🤖 *Commandes disponibles*

📌 !ping - Tester le bot
📌 !bonjour - Salutation
📌 !info - Informations
📌 !quit - Quitter le groupe (admin uniquement)
📌 !help - Cette aide

Powered by whatsmeow 🚀`

	ReplyInfo = `ℹ️ *Informations Bot*

✅ Status: En ligne
📦 Version: whatsmeow (Go)
🔗 Connexion: Stable
⚡ Prêt à répondre!`

	NoticeAdding    = "➕ Ajout du nouvel administrateur au groupe..."
	NoticePromoting = "⚙️ Promotion en administrateur..."
	NoticeFarewell  = "👋 Nouvel admin configuré ! Je quitte le groupe. Au revoir !"
	NoticeNotAdmin  = "⚠️ Je ne suis pas admin, je quitte sans promotion."
	ErrorPrefix     = "❌ Erreur lors de l'opération: "
)
