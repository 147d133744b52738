package handlers

// Кнопки меню участника
const (
	BtnRegister        = "Записаться на мастер-класс"
	BtnMyRegistrations = "Мои записи"
)

// Кнопки меню администратора
const (
	BtnManageWorkshops = "Управление мастер-классами"
	BtnExport          = "Выгрузка данных"
	BtnBroadcast       = "Рассылка"
	BtnAddWorkshop     = "Добавить мастер-класс"
	BtnToggleWorkshops = "Активировать/деактивировать"
	BtnBack            = "Назад"
)

// Префиксы callback data
const (
	CallbackSelectWorkshop = "workshop:"
	CallbackToggleWorkshop = "toggle:"
)

// Тексты запросов диалогов
const (
	PromptFullName        = "Введите ваше ФИО:"
	PromptPhone           = "Введите ваш номер телефона:"
	PromptWorkshopName    = "Введите название мастер-класса:"
	PromptWorkshopDate    = "Введите дату мастер-класса (ГГГГ-ММ-ДД):"
	PromptWorkshopTime    = "Введите время мастер-класса (ЧЧ:ММ):"
	PromptWorkshopMax     = "Введите максимальное количество участников:"
	PromptAnnouncement    = "Введите сообщение для рассылки:"
	PromptNumberRequired  = "Пожалуйста, введите число."
	PromptChooseWorkshop  = "Выберите мастер-класс:"
	PromptChooseToggle    = "Выберите мастер-класс для активации/деактивации:"
	PromptManageWorkshops = "Управление мастер-классами:"
)

// Прочие ответы
const (
	MsgAccessDenied       = "Доступ запрещен"
	MsgNoWorkshopsToday   = "На сегодня мастер-классов нет."
	MsgNoWorkshopsAtAll   = "Нет мастер-классов в базе."
	MsgNoRegistrations    = "У вас нет записей на мастер-классы."
	MsgStatusChanged      = "Статус изменен!"
	MsgInternalError      = "❌ Произошла ошибка. Попробуйте позже."
	MsgResendPhone        = "❌ Не удалось сохранить запись. Отправьте номер телефона ещё раз."
	MsgUnknownInput       = "Не понимаю команду. Воспользуйтесь кнопками меню 👇"
	MsgWorkshopUnknown    = "Мастер-класс не найден."
	MsgWelcomeAttendee    = "Добро пожаловать на форум 'ПРОрегион'! Выберите действие:"
	MsgWelcomeAdmin       = "Добро пожаловать, администратор!"
	MsgBackToMainMenu     = "Главное меню:"
	MsgBackToAdminMenu    = "Главное меню администратора:"
	MsgBroadcastCompleted = "Рассылка завершена. Сообщение отправлено %d пользователям."
)
