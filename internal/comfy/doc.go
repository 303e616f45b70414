// Package comfy — клиент ComfyUI-совместимого сервиса исполнения.
//
// Сервис принимает готовый (отрендеренный) node-graph документ,
// исполняет его и отдаёт изображения. Клиент покрывает три вызова:
// постановку документа, опрос истории и скачивание результата.
package comfy
