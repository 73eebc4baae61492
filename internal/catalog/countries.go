package catalog

// Country is one entry of the static travel catalog.
type Country struct {
	ID          string
	Name        string
	Description string
	ImageURL    string
	VideoURL    string
	Attractions []string
}

// Countries is the catalog in display order. The content is static product
// data; the Russian texts are rendered verbatim.
var Countries = []Country{
	{
		ID:          "japan",
		Name:        "Япония",
		Description: "Япония - удивительная страна, где древние традиции встречаются с современными технологиями. От величественных храмов до инновационных городов, Япония предлагает уникальное путешествие в культуру, искусство и природу.",
		ImageURL:    "https://resize.tripster.ru/g_luU5kGMuMmG4fN1o0udHBw9yA=/fit-in/1080x1440/filters:no_upscale()/https://cdn.tripster.ru/photos/ab88bae9-9e48-4fa9-ae92-04ea32299330.jpg",
		VideoURL:    "https://youtu.be/YIo2tJSkidk?si=Yzb4eK2ZzfB90s8z",
		Attractions: []string{
			"🏯 Замок Осаки - символ японской истории",
			"⛩️ Святилище Фушими Инари - тысячи красных ворот",
			"🗻 Гора Фудзи - самая высокая вершина Японии",
			"🏮 Храм Золотого павильона в Киото",
			"🌸 Сад камней Рёан-дзи",
		},
	},
	{
		ID:          "france",
		Name:        "Франция",
		Description: "Франция - страна любви, искусства и изысканного вкуса. От романтичного Парижа до южного очарования Прованса, здесь на каждом углу царит атмосфера элегантности и культуры.",
		ImageURL:    "https://as1.ftcdn.net/jpg/01/47/49/76/1000_F_147497684_2GfgE05sJ8hxeYsZZTm6tBu2EHCc98G2.jpg",
		VideoURL:    "https://youtu.be/EkshFcLESPU?si=SDj9VQYjR9_nb154",
		Attractions: []string{
			"🗼 Эйфелева башня - символ Парижа",
			"🏰 Версальский дворец - величие королевской власти",
			"⛪ Собор Нотр-Дам де Шартр",
			"🎭 Лувр - крупнейший музей мира",
			"🍷 Виноградники Бордо и Бургундии",
		},
	},
	{
		ID:          "italy",
		Name:        "Италия",
		Description: "Италия - колыбель Возрождения и европейской культуры. С потрясающей архитектурой, вкусной кухней и гостеприимными людьми, Италия очаровывает каждого путешественника.",
		ImageURL:    "https://img.freepik.com/premium-photo/scenic-view-sea-against-sky_1048944-25393574.jpg?semt=ais_hybrid&w=740",
		VideoURL:    "https://youtu.be/pwivE6bvD8w?si=52ocgv3QkNGHoAH7",
		Attractions: []string{
			"🏛️ Колизей в Риме - величие древнеримской архитектуры",
			"⛪ Собор Святого Петра в Ватикане",
			"🚤 Венеция - город каналов и романтики",
			"🗿 Галерея Уффици - шедевры Возрождения",
			"🌊 Побережье Амальфи",
		},
	},
	{
		ID:          "united-kingdom",
		Name:        "Соединённое Королевство",
		Description: "Соединённое Королевство - страна с богатой историей и одна из самых влиятельных держав мира. Сочетание истории, современности и британского очарования делает Соединённое Королевство незабываемым местом для посещения.",
		ImageURL:    "https://i.pinimg.com/originals/a3/b4/a8/a3b4a8962647ba45905ce683d03a60c6.jpg",
		VideoURL:    "https://youtu.be/SNx8B_oE8IY?si=IQwAu6rWwdCnVBSh",
		Attractions: []string{
			"👑 Букингемский дворец - резиденция монарха",
			"🕐 Башня Элизабет (Биг-Бен)",
			"🌉 Лондонский мост",
			"🏴󠁧󠁢󠁥󠁮󠁧󠁿 Вестминстерское аббатство",
			"🎡 Лондонский глаз - колесо обозрения",
		},
	},
}

// CountryByID looks a catalog entry up; ok is false for unknown ids.
func CountryByID(id string) (Country, bool) {
	for _, c := range Countries {
		if c.ID == id {
			return c, true
		}
	}
	return Country{}, false
}
